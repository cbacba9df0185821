// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/session"
)

func adminSession() *session.Data {
	return testSession(1, "admin@folio.local")
}

// --- Dashboard ---

func TestDashboard_Returns200ForEveryTab(t *testing.T) {
	env := newTestEnv(t)
	env.Projects.add(models.Project{Title: "Folio", Tech: []string{"Go"}})
	env.Skills.add(models.Skill{Name: "Go", Category: "Backend"})
	env.Blog.add(models.BlogPost{Title: "Hello", Slug: "hello", Content: "x"})

	for _, tab := range Tabs {
		t.Run(tab, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.Admin.Dashboard(rec, getRequest("/admin/dashboard?tab="+tab, adminSession()))

			if rec.Code != http.StatusOK {
				t.Fatalf("Dashboard(%s): got status %d, body: %.500s", tab, rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
				t.Errorf("Content-Type = %q, want text/html", ct)
			}
		})
	}
}

func TestDashboard_UnknownTabFallsBackToProjects(t *testing.T) {
	env := newTestEnv(t)
	env.Projects.add(models.Project{Title: "Visible Project", Tech: []string{"Go"}})

	rec := httptest.NewRecorder()
	env.Admin.Dashboard(rec, getRequest("/admin/dashboard?tab=nope", adminSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Visible Project") {
		t.Error("projects tab not rendered for unknown tab")
	}
}

func TestDashboard_SearchFiltersList(t *testing.T) {
	env := newTestEnv(t)
	env.Projects.add(models.Project{Title: "Compiler", Tech: []string{"Rust"}})
	env.Projects.add(models.Project{Title: "Portfolio", Tech: []string{"Go"}})

	rec := httptest.NewRecorder()
	env.Admin.Dashboard(rec, getRequest("/admin/dashboard?tab=projects&q=COMP", adminSession()))

	body := rec.Body.String()
	if !strings.Contains(body, "Compiler") {
		t.Error("matching project missing")
	}
	if strings.Contains(body, "Portfolio") {
		t.Error("non-matching project shown")
	}
}

func TestDashboard_EditOpensPrefilledForm(t *testing.T) {
	env := newTestEnv(t)
	p := env.Projects.add(models.Project{Title: "Editable", Tech: []string{"Go", "SQL"}})

	rec := httptest.NewRecorder()
	env.Admin.Dashboard(rec, getRequest("/admin/dashboard?tab=projects&edit="+strconv.FormatInt(p.ID, 10), adminSession()))

	body := rec.Body.String()
	if !strings.Contains(body, `action="/admin/projects/`+strconv.FormatInt(p.ID, 10)+`"`) {
		t.Error("edit form not opened")
	}
	if !strings.Contains(body, `value="Go, SQL"`) {
		t.Error("tech list not prefilled")
	}
}

func TestDashboard_EditMissingFlashesError(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Admin.Dashboard(rec, getRequest("/admin/dashboard?tab=blog&edit=99", adminSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	assertFlashShown(t, rec, session.FlashError, "That item no longer exists.")
}

func TestDashboard_ShowsStats(t *testing.T) {
	env := newTestEnv(t)
	env.Projects.add(models.Project{Title: "A", Tech: []string{"Go"}, Featured: true})
	env.Projects.add(models.Project{Title: "B", Tech: []string{"Go"}})

	rec := httptest.NewRecorder()
	env.Admin.Dashboard(rec, getRequest("/admin/dashboard", adminSession()))

	body := rec.Body.String()
	if !strings.Contains(body, "<strong>2</strong> projects") || !strings.Contains(body, "<strong>1</strong> featured") {
		t.Error("project counters not rendered")
	}
}

// --- Projects ---

func TestProjectCreate_ValidData_Redirects(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{}
	form.Set("title", "Folio")
	form.Set("description", "A portfolio site.")
	form.Set("image", "/static/img/folio.png")
	form.Set("images", "https://example.com/a.png\n\n/static/b.png")
	form.Set("tech", "Go, PostgreSQL, ,Valkey")
	form.Set("github", "https://github.com/example/folio")
	form.Set("featured", "on")

	rec := httptest.NewRecorder()
	env.Admin.ProjectCreate(rec, postForm("/admin/projects", form, adminSession()))

	assertRedirect(t, rec, "/admin/dashboard?tab=projects")
	assertFlash(t, env, rec, session.FlashSuccess, `Project "Folio" created.`)

	items, _ := env.Projects.List(context.Background())
	if len(items) != 1 {
		t.Fatalf("stored projects: got %d, want 1", len(items))
	}
	p := items[0]
	if strings.Join(p.Tech, "|") != "Go|PostgreSQL|Valkey" {
		t.Errorf("Tech = %v", p.Tech)
	}
	if len(p.Images) != 2 {
		t.Errorf("Images = %v, want 2 entries", p.Images)
	}
	if p.Live != nil {
		t.Errorf("Live = %q, want nil for blank input", *p.Live)
	}
	if !p.Featured {
		t.Error("Featured not set")
	}
}

func TestProjectCreate_MissingTitle_ReRendersForm(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{}
	form.Set("description", "No title here.")
	form.Set("image", "/img.png")
	form.Set("tech", "Go")

	rec := httptest.NewRecorder()
	env.Admin.ProjectCreate(rec, postForm("/admin/projects", form, adminSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Title is required.") {
		t.Errorf("validation error missing, got: %.500s", body)
	}
	if !strings.Contains(body, "No title here.") {
		t.Error("submitted input not kept in the form")
	}
	if n, _, _ := env.Projects.Counts(context.Background()); n != 0 {
		t.Errorf("stored projects: got %d, want 0", n)
	}
}

func TestProjectCreate_BlankTechAndBadGallery(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{}
	form.Set("title", "Folio")
	form.Set("description", "d")
	form.Set("image", "/img.png")
	form.Set("tech", " , ")
	form.Set("images", "ftp://example.com/a.png")

	rec := httptest.NewRecorder()
	env.Admin.ProjectCreate(rec, postForm("/admin/projects", form, adminSession()))

	body := rec.Body.String()
	if !strings.Contains(body, "Tech needs at least one entry.") {
		t.Error("blank tech accepted")
	}
	if !strings.Contains(body, "is not a valid image URL.") {
		t.Error("bad gallery URL accepted")
	}
}

func TestProjectCreate_StoreError_KeepsForm(t *testing.T) {
	env := newTestEnv(t)
	env.Projects.err = errBoom

	form := url.Values{}
	form.Set("title", "Folio")
	form.Set("description", "d")
	form.Set("image", "/img.png")
	form.Set("tech", "Go")

	rec := httptest.NewRecorder()
	env.Admin.ProjectCreate(rec, postForm("/admin/projects", form, adminSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	assertFlashShown(t, rec, session.FlashError, "Could not save the project.")
	if !strings.Contains(rec.Body.String(), `value="Folio"`) {
		t.Error("submitted form not kept open")
	}
}

func TestProjectUpdate_ValidData_Redirects(t *testing.T) {
	env := newTestEnv(t)
	p := env.Projects.add(models.Project{Title: "Old", Description: "d", Image: "/i.png", Tech: []string{"Go"}})

	form := url.Values{}
	form.Set("title", "New")
	form.Set("description", "d")
	form.Set("image", "/i.png")
	form.Set("tech", "Go")
	form.Set("live", "https://folio.example.com")

	req := withChiURLParam(postForm("/admin/projects/1", form, adminSession()), "id", strconv.FormatInt(p.ID, 10))
	rec := httptest.NewRecorder()
	env.Admin.ProjectUpdate(rec, req)

	assertRedirect(t, rec, "/admin/dashboard?tab=projects")
	got, _ := env.Projects.FindByID(context.Background(), p.ID)
	if got.Title != "New" || !got.HasLive() {
		t.Errorf("project not updated: %+v", got)
	}
}

func TestProjectUpdate_Missing_FlashesError(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{}
	form.Set("title", "Ghost")
	form.Set("description", "d")
	form.Set("image", "/i.png")
	form.Set("tech", "Go")

	req := withChiURLParam(postForm("/admin/projects/42", form, adminSession()), "id", "42")
	rec := httptest.NewRecorder()
	env.Admin.ProjectUpdate(rec, req)

	assertRedirect(t, rec, "/admin/dashboard?tab=projects")
	assertFlash(t, env, rec, session.FlashError, "That project no longer exists.")
}

func TestProjectUpdate_InvalidID_Returns404(t *testing.T) {
	env := newTestEnv(t)

	req := withChiURLParam(postForm("/admin/projects/abc", url.Values{}, adminSession()), "id", "abc")
	rec := httptest.NewRecorder()
	env.Admin.ProjectUpdate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestProjectDelete_WithoutConfirm_ShowsConfirmPage(t *testing.T) {
	env := newTestEnv(t)
	p := env.Projects.add(models.Project{Title: "Doomed", Tech: []string{"Go"}})
	id := strconv.FormatInt(p.ID, 10)

	req := withChiURLParam(postForm("/admin/projects/"+id+"/delete", url.Values{}, adminSession()), "id", id)
	rec := httptest.NewRecorder()
	env.Admin.ProjectDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Doomed", `name="confirm" value="yes"`, `action="/admin/projects/` + id + `/delete"`} {
		if !strings.Contains(body, want) {
			t.Errorf("confirm page missing %q", want)
		}
	}
	if n, _, _ := env.Projects.Counts(context.Background()); n != 1 {
		t.Error("project deleted without confirmation")
	}
}

func TestProjectDelete_Confirmed_Removes(t *testing.T) {
	env := newTestEnv(t)
	p := env.Projects.add(models.Project{Title: "Doomed", Tech: []string{"Go"}})
	id := strconv.FormatInt(p.ID, 10)

	form := url.Values{"confirm": {"yes"}}
	req := withChiURLParam(postForm("/admin/projects/"+id+"/delete", form, adminSession()), "id", id)
	rec := httptest.NewRecorder()
	env.Admin.ProjectDelete(rec, req)

	assertRedirect(t, rec, "/admin/dashboard?tab=projects")
	assertFlash(t, env, rec, session.FlashSuccess, "Project deleted.")
	if n, _, _ := env.Projects.Counts(context.Background()); n != 0 {
		t.Error("project still stored")
	}
}

func TestProjectDelete_Missing_FlashesError(t *testing.T) {
	env := newTestEnv(t)

	req := withChiURLParam(postForm("/admin/projects/7/delete", url.Values{}, adminSession()), "id", "7")
	rec := httptest.NewRecorder()
	env.Admin.ProjectDelete(rec, req)

	assertRedirect(t, rec, "/admin/dashboard?tab=projects")
	assertFlash(t, env, rec, session.FlashError, "no longer exists")
}

// --- Skills ---

func TestSkillCreate_ValidData_Redirects(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{}
	form.Set("name", "Go")
	form.Set("category", "Backend")
	form.Set("level", "90")

	rec := httptest.NewRecorder()
	env.Admin.SkillCreate(rec, postForm("/admin/skills", form, adminSession()))

	assertRedirect(t, rec, "/admin/dashboard?tab=skills")
	items, _ := env.Skills.List(context.Background())
	if len(items) != 1 || items[0].Level == nil || *items[0].Level != 90 || items[0].Icon != nil {
		t.Errorf("stored skills: %+v", items)
	}
}

func TestSkillCreate_LevelOutOfRange(t *testing.T) {
	env := newTestEnv(t)

	for _, level := range []string{"101", "-1", "abc"} {
		t.Run(level, func(t *testing.T) {
			form := url.Values{}
			form.Set("name", "Go")
			form.Set("level", level)

			rec := httptest.NewRecorder()
			env.Admin.SkillCreate(rec, postForm("/admin/skills", form, adminSession()))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "Level must") {
				t.Errorf("level %q accepted", level)
			}
		})
	}
	if n, _ := env.Skills.Count(context.Background()); n != 0 {
		t.Errorf("stored skills: got %d, want 0", n)
	}
}

func TestSkillUpdate_ValidData_Redirects(t *testing.T) {
	env := newTestEnv(t)
	sk := env.Skills.add(models.Skill{Name: "Go"})
	id := strconv.FormatInt(sk.ID, 10)

	form := url.Values{}
	form.Set("name", "Golang")
	form.Set("category", "Languages")

	req := withChiURLParam(postForm("/admin/skills/"+id, form, adminSession()), "id", id)
	rec := httptest.NewRecorder()
	env.Admin.SkillUpdate(rec, req)

	assertRedirect(t, rec, "/admin/dashboard?tab=skills")
	got, _ := env.Skills.FindByID(context.Background(), sk.ID)
	if got.Name != "Golang" || got.Category != "Languages" || got.Level != nil {
		t.Errorf("skill not updated: %+v", got)
	}
}

func TestSkillDelete_ConfirmedRemoves(t *testing.T) {
	env := newTestEnv(t)
	sk := env.Skills.add(models.Skill{Name: "Perl"})
	id := strconv.FormatInt(sk.ID, 10)

	req := withChiURLParam(postForm("/admin/skills/"+id+"/delete", url.Values{"confirm": {"yes"}}, adminSession()), "id", id)
	rec := httptest.NewRecorder()
	env.Admin.SkillDelete(rec, req)

	assertRedirect(t, rec, "/admin/dashboard?tab=skills")
	if n, _ := env.Skills.Count(context.Background()); n != 0 {
		t.Error("skill still stored")
	}
}

func TestSkillBulkDelete_ConfirmThenDelete(t *testing.T) {
	env := newTestEnv(t)
	a := env.Skills.add(models.Skill{Name: "Go"})
	b := env.Skills.add(models.Skill{Name: "Rust"})
	env.Skills.add(models.Skill{Name: "Zig"})

	ida, idb := strconv.FormatInt(a.ID, 10), strconv.FormatInt(b.ID, 10)
	form := url.Values{"ids": {ida, idb, "junk", ida, "0"}}

	rec := httptest.NewRecorder()
	env.Admin.SkillBulkDelete(rec, postForm("/admin/skills/bulk-delete", form, adminSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("confirm step: got status %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"2 skills", "Go", "Rust", `name="ids" value="` + ida + `"`, `name="ids" value="` + idb + `"`} {
		if !strings.Contains(body, want) {
			t.Errorf("confirm page missing %q", want)
		}
	}
	if n, _ := env.Skills.Count(context.Background()); n != 3 {
		t.Fatal("skills deleted before confirmation")
	}

	form.Set("confirm", "yes")
	rec = httptest.NewRecorder()
	env.Admin.SkillBulkDelete(rec, postForm("/admin/skills/bulk-delete", form, adminSession()))

	assertRedirect(t, rec, "/admin/dashboard?tab=skills")
	assertFlash(t, env, rec, session.FlashSuccess, "Deleted 2 skills.")
	items, _ := env.Skills.List(context.Background())
	if len(items) != 1 || items[0].Name != "Zig" {
		t.Errorf("remaining skills: %+v", items)
	}
}

func TestSkillBulkDelete_NoSelection(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Admin.SkillBulkDelete(rec, postForm("/admin/skills/bulk-delete", url.Values{"confirm": {"yes"}}, adminSession()))

	assertRedirect(t, rec, "/admin/dashboard?tab=skills")
	assertFlash(t, env, rec, session.FlashError, "Select at least one skill")
}

func TestSkillBulkDelete_StoreError(t *testing.T) {
	env := newTestEnv(t)
	sk := env.Skills.add(models.Skill{Name: "Go"})
	env.Skills.err = errBoom

	form := url.Values{"ids": {strconv.FormatInt(sk.ID, 10)}, "confirm": {"yes"}}
	rec := httptest.NewRecorder()
	env.Admin.SkillBulkDelete(rec, postForm("/admin/skills/bulk-delete", form, adminSession()))

	assertRedirect(t, rec, "/admin/dashboard?tab=skills")
	assertFlash(t, env, rec, session.FlashError, "Could not delete the selected skills.")
}

func TestSelectedIDs(t *testing.T) {
	got := selectedIDs([]string{"3", "x", "3", "-1", "0", "10"})
	if len(got) != 2 || got[0] != 3 || got[1] != 10 {
		t.Errorf("selectedIDs = %v, want [3 10]", got)
	}
}

// --- Blog ---

func blogFormValues(title, slug string, published bool) url.Values {
	form := url.Values{}
	form.Set("title", title)
	form.Set("slug", slug)
	form.Set("content", "# Heading\n\nBody text.")
	form.Set("tags", "go, web")
	if published {
		form.Set("published", "on")
	}
	return form
}

func TestBlogCreate_DerivesSlugFromTitle(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Admin.BlogCreate(rec, postForm("/admin/blog", blogFormValues("My New Project!", "", false), adminSession()))

	assertRedirect(t, rec, "/admin/dashboard?tab=blog")
	p := env.Blog.bySlug("my-new-project")
	if p == nil {
		t.Fatal("post with derived slug not stored")
	}
	if p.PublishedAt != nil {
		t.Error("draft post has published_at")
	}
	if strings.Join(p.Tags, ",") != "go,web" {
		t.Errorf("Tags = %v", p.Tags)
	}
}

func TestBlogCreate_ExplicitSlugKept(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Admin.BlogCreate(rec, postForm("/admin/blog", blogFormValues("Title", "  custom-slug ", true), adminSession()))

	assertRedirect(t, rec, "/admin/dashboard?tab=blog")
	p := env.Blog.bySlug("custom-slug")
	if p == nil {
		t.Fatal("post with explicit slug not stored")
	}
	if p.PublishedAt == nil {
		t.Error("published post has no published_at")
	}
}

func TestBlogCreate_MissingContent_ReRendersForm(t *testing.T) {
	env := newTestEnv(t)

	form := blogFormValues("Title", "", false)
	form.Set("content", "   ")

	rec := httptest.NewRecorder()
	env.Admin.BlogCreate(rec, postForm("/admin/blog", form, adminSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Content is required.") {
		t.Error("content validation error missing")
	}
}

func TestBlogCreate_UnsluggableTitle(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Admin.BlogCreate(rec, postForm("/admin/blog", blogFormValues("!!!", "", false), adminSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Slug could not be derived") {
		t.Error("empty derived slug accepted")
	}
}

func TestBlogCreate_DuplicateSlug_ShowsFieldError(t *testing.T) {
	env := newTestEnv(t)
	env.Blog.add(models.BlogPost{Title: "First", Slug: "hello", Content: "x"})

	rec := httptest.NewRecorder()
	env.Admin.BlogCreate(rec, postForm("/admin/blog", blogFormValues("Hello", "", false), adminSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), duplicateSlugMessage) {
		t.Error("duplicate slug error missing")
	}
}

func TestBlogUpdate_PublishedAtRules(t *testing.T) {
	env := newTestEnv(t)
	first := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)
	clock := first
	env.Blog.now = func() time.Time { return clock }

	p := env.Blog.add(models.BlogPost{Title: "Draft", Slug: "draft", Content: "x"})
	id := strconv.FormatInt(p.ID, 10)
	update := func(published bool) *models.BlogPost {
		t.Helper()
		req := withChiURLParam(postForm("/admin/blog/"+id, blogFormValues("Draft", "draft", published), adminSession()), "id", id)
		rec := httptest.NewRecorder()
		env.Admin.BlogUpdate(rec, req)
		assertRedirect(t, rec, "/admin/dashboard?tab=blog")
		got, _ := env.Blog.FindByID(context.Background(), p.ID)
		return got
	}

	if got := update(true); got.PublishedAt == nil || !got.PublishedAt.Equal(first) {
		t.Fatalf("first publish: PublishedAt = %v, want %v", got.PublishedAt, first)
	}

	clock = later
	if got := update(true); !got.PublishedAt.Equal(first) {
		t.Errorf("re-save: PublishedAt = %v, want original %v", got.PublishedAt, first)
	}

	if got := update(false); got.PublishedAt != nil {
		t.Errorf("unpublish: PublishedAt = %v, want nil", got.PublishedAt)
	}
}

func TestBlogUpdate_SlugChangeInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.Blog.add(models.BlogPost{Title: "Post", Slug: "old-slug", Content: "x", Published: true})
	env.PageCache.Set(ctx, cache.PostKey("old-slug"), []byte("<p>stale</p>"))
	env.PageCache.Set(ctx, cache.PostKey("new-slug"), []byte("<p>stale</p>"))

	id := strconv.FormatInt(p.ID, 10)
	req := withChiURLParam(postForm("/admin/blog/"+id, blogFormValues("Post", "new-slug", true), adminSession()), "id", id)
	rec := httptest.NewRecorder()
	env.Admin.BlogUpdate(rec, req)

	assertRedirect(t, rec, "/admin/dashboard?tab=blog")
	for _, slug := range []string{"old-slug", "new-slug"} {
		if _, ok := env.PageCache.Get(ctx, cache.PostKey(slug)); ok {
			t.Errorf("cache entry for %q survived the update", slug)
		}
	}
}

func TestBlogUpdate_DuplicateSlug(t *testing.T) {
	env := newTestEnv(t)
	env.Blog.add(models.BlogPost{Title: "A", Slug: "taken", Content: "x"})
	p := env.Blog.add(models.BlogPost{Title: "B", Slug: "b", Content: "x"})
	id := strconv.FormatInt(p.ID, 10)

	req := withChiURLParam(postForm("/admin/blog/"+id, blogFormValues("B", "taken", false), adminSession()), "id", id)
	rec := httptest.NewRecorder()
	env.Admin.BlogUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), duplicateSlugMessage) {
		t.Error("duplicate slug error missing")
	}
}

func TestBlogDelete_ConfirmedInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.Blog.add(models.BlogPost{Title: "Gone", Slug: "gone", Content: "x", Published: true})
	env.PageCache.Set(ctx, cache.PostKey("gone"), []byte("<p>cached</p>"))
	id := strconv.FormatInt(p.ID, 10)

	req := withChiURLParam(postForm("/admin/blog/"+id+"/delete", url.Values{}, adminSession()), "id", id)
	rec := httptest.NewRecorder()
	env.Admin.BlogDelete(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Gone") {
		t.Fatalf("confirm step: status %d", rec.Code)
	}

	req = withChiURLParam(postForm("/admin/blog/"+id+"/delete", url.Values{"confirm": {"yes"}}, adminSession()), "id", id)
	rec = httptest.NewRecorder()
	env.Admin.BlogDelete(rec, req)

	assertRedirect(t, rec, "/admin/dashboard?tab=blog")
	if env.Blog.bySlug("gone") != nil {
		t.Error("post still stored")
	}
	if _, ok := env.PageCache.Get(ctx, cache.PostKey("gone")); ok {
		t.Error("cached body survived delete")
	}
}

// --- Profile ---

func TestProfileUpdate_ValidData_Redirects(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{}
	form.Set("full_name", "Grace Hopper")
	form.Set("role", "Rear Admiral")
	form.Set("github", "https://github.com/grace")
	form.Set("twitter", "")

	rec := httptest.NewRecorder()
	env.Admin.ProfileUpdate(rec, postForm("/admin/profile", form, adminSession()))

	assertRedirect(t, rec, "/admin/dashboard?tab=profile")
	p, _ := env.Profile.Get(context.Background())
	if p.ID != 1 || p.FullName != "Grace Hopper" || p.GitHub != "https://github.com/grace" || p.Twitter != nil {
		t.Errorf("profile not updated: %+v", p)
	}
}

func TestProfileUpdate_InvalidURL_ReRendersForm(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{}
	form.Set("full_name", "Grace Hopper")
	form.Set("avatar_url", "not a url")

	rec := httptest.NewRecorder()
	env.Admin.ProfileUpdate(rec, postForm("/admin/profile", form, adminSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Avatar URL must be a valid URL.") {
		t.Error("url validation error missing")
	}
	if p, _ := env.Profile.Get(context.Background()); p.FullName != "Ada Lovelace" {
		t.Error("profile changed despite validation error")
	}
}

func TestProfileUpdate_NoRecord(t *testing.T) {
	env := newTestEnv(t)
	env.Profile.profile = nil

	form := url.Values{}
	form.Set("full_name", "Nobody")

	rec := httptest.NewRecorder()
	env.Admin.ProfileUpdate(rec, postForm("/admin/profile", form, adminSession()))

	assertRedirect(t, rec, "/admin/dashboard?tab=profile")
	assertFlash(t, env, rec, session.FlashError, "No profile record exists yet.")
}

// --- Settings ---

func TestSettingsUpdate_SavesValues(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{}
	form.Set("contact_enabled", "on")
	form.Set("admin_emails", "one@example.com\ntwo@example.com, one@example.com")

	rec := httptest.NewRecorder()
	env.Admin.SettingsUpdate(rec, postForm("/admin/settings", form, adminSession()))

	assertRedirect(t, rec, "/admin/dashboard?tab=settings")
	if got := env.Config.get(models.ConfigEmailFormEnabled); got != "true" {
		t.Errorf("stored contact toggle = %q, want true", got)
	}
	if got := env.Config.get(models.ConfigAdminEmails); got != "one@example.com, two@example.com, one@example.com" {
		t.Errorf("stored admin emails = %q", got)
	}
	if !env.Settings.ContactFormEnabled(false) {
		t.Error("cached contact toggle not updated")
	}
}

func TestSettingsUpdate_UncheckedDisablesContact(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Admin.SettingsUpdate(rec, postForm("/admin/settings", url.Values{}, adminSession()))

	assertRedirect(t, rec, "/admin/dashboard?tab=settings")
	if got := env.Config.get(models.ConfigEmailFormEnabled); got != "false" {
		t.Errorf("stored contact toggle = %q, want false", got)
	}
}

func TestSettingsUpdate_InvalidEmail_KeepsInput(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{}
	form.Set("admin_emails", "typed-by-user@example.com\nnot-an-email")

	rec := httptest.NewRecorder()
	env.Admin.SettingsUpdate(rec, postForm("/admin/settings", form, adminSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "is not a valid email address.") {
		t.Error("email validation error missing")
	}
	if !strings.Contains(body, "typed-by-user@example.com") {
		t.Error("typed admin emails lost")
	}
	if strings.Contains(body, `name="contact_enabled" checked`) {
		t.Error("unchecked contact toggle shown as checked")
	}
	if got := env.Config.get(models.ConfigAdminEmails); got != "" {
		t.Errorf("invalid list stored: %q", got)
	}
	if got := env.Config.get(models.ConfigEmailFormEnabled); got != "true" {
		t.Errorf("contact toggle written despite invalid emails: %q", got)
	}
}

func TestSettingsUpdate_WriteFailure_KeepsFormAndStore(t *testing.T) {
	env := newTestEnv(t)
	if err := env.Settings.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	env.Config.upsertErr = errBoom

	form := url.Values{}
	form.Set("admin_emails", "typed-by-user@example.com")

	rec := httptest.NewRecorder()
	env.Admin.SettingsUpdate(rec, postForm("/admin/settings", form, adminSession()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	assertFlashShown(t, rec, session.FlashError, "Could not save settings.")
	if !strings.Contains(rec.Body.String(), "typed-by-user@example.com") {
		t.Error("submitted admin emails lost")
	}
	if !env.Settings.ContactFormEnabled(false) {
		t.Error("cache changed although the write failed")
	}
	if got := env.Config.get(models.ConfigEmailFormEnabled); got != "true" {
		t.Errorf("contact toggle half-written: %q", got)
	}
	if got := env.Config.get(models.ConfigAdminEmails); got != "" {
		t.Errorf("admin emails half-written: %q", got)
	}
}

func TestSettingsTab_ShowsDescriptions(t *testing.T) {
	env := newTestEnv(t)
	env.Config.rows[models.ConfigAdminEmails] = ""
	env.Config.rows[models.ConfigAnalyticsEmbedURL] = ""
	env.Config.descriptions = map[string]string{
		models.ConfigEmailFormEnabled:  "Show the contact form on the public site",
		models.ConfigAdminEmails:       "Emails allowed into the dashboard",
		models.ConfigAnalyticsEmbedURL: "Report URL embedded on the analytics tab",
	}

	rec := httptest.NewRecorder()
	env.Admin.Dashboard(rec, getRequest("/admin/dashboard?tab=settings", adminSession()))
	body := rec.Body.String()
	for _, want := range []string{"Show the contact form on the public site", "Emails allowed into the dashboard"} {
		if !strings.Contains(body, want) {
			t.Errorf("settings tab missing %q", want)
		}
	}

	rec = httptest.NewRecorder()
	env.Admin.Dashboard(rec, getRequest("/admin/dashboard?tab=analytics", adminSession()))
	if !strings.Contains(rec.Body.String(), "Report URL embedded on the analytics tab") {
		t.Error("analytics description missing")
	}
}

func TestSettingsTab_RereadsStore(t *testing.T) {
	env := newTestEnv(t)
	env.Settings.Ensure(context.Background())
	env.Config.rows[models.ConfigAdminEmails] = "later@example.com"

	rec := httptest.NewRecorder()
	env.Admin.Dashboard(rec, getRequest("/admin/dashboard?tab=settings", adminSession()))

	if !strings.Contains(rec.Body.String(), "later@example.com") {
		t.Error("settings tab served a stale allow-list")
	}
}

func TestSettingsTab_ShowsTOTPState(t *testing.T) {
	env := newTestEnv(t)
	env.Users.add(t, 1, "admin@folio.local", "secret-password")

	rec := httptest.NewRecorder()
	env.Admin.Dashboard(rec, getRequest("/admin/dashboard?tab=settings", adminSession()))
	if !strings.Contains(rec.Body.String(), "/admin/2fa/setup") {
		t.Error("password account should be offered 2FA setup")
	}

	rec = httptest.NewRecorder()
	env.Admin.Dashboard(rec, getRequest("/admin/dashboard?tab=settings", googleSession("g@example.com")))
	if !strings.Contains(rec.Body.String(), "Managed by your sign-in provider.") {
		t.Error("google account should not be offered 2FA")
	}
	if !strings.Contains(rec.Body.String(), "root@folio.local") {
		t.Error("static admins not listed")
	}
}

// --- Analytics ---

func TestAnalyticsUpdate_Valid(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"url": {"https://analytics.example.com/share/abc"}}
	rec := httptest.NewRecorder()
	env.Admin.AnalyticsUpdate(rec, postForm("/admin/analytics", form, adminSession()))

	assertRedirect(t, rec, "/admin/dashboard?tab=analytics")
	if got := env.Settings.AnalyticsURL(""); got != "https://analytics.example.com/share/abc" {
		t.Errorf("AnalyticsURL = %q", got)
	}
}

func TestAnalyticsUpdate_Rejects(t *testing.T) {
	tests := []struct {
		name, url, want string
	}{
		{"blank", "  ", "URL is required."},
		{"javascript", "javascript:alert(1)", "URL must start with http:// or https://."},
		{"relative", "/share/abc", "URL must start with http:// or https://."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := httptest.NewRecorder()
			env.Admin.AnalyticsUpdate(rec, postForm("/admin/analytics", url.Values{"url": {tt.url}}, adminSession()))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
			if got := env.Config.get(models.ConfigAnalyticsEmbedURL); got != "" {
				t.Errorf("stored %q", got)
			}
		})
	}
}
