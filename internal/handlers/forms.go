// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"folio/internal/models"
	"folio/internal/slug"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// FormErrors maps a field label to its first validation message.
type FormErrors map[string]string

// Any reports whether any field failed.
func (e FormErrors) Any() bool { return len(e) > 0 }

// validateForm runs struct validation and returns one message per field.
func validateForm(form any) FormErrors {
	errs := FormErrors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["form"] = "The form could not be validated."
		return errs
	}
	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = fieldMessage(fe)
		}
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	case "max":
		return fmt.Sprintf("%s is too long (max %s characters).", fe.Field(), fe.Param())
	case "url", "http_url":
		return fe.Field() + " must be a valid URL."
	case "email":
		return fe.Field() + " must be a valid email address."
	case "numeric":
		return fe.Field() + " must be a number."
	}
	return fe.Field() + " is invalid."
}

// splitList splits on commas, trimming space and dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitLines splits on newlines, trimming space and dropping blanks.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// optional maps a blank value to nil.
func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func checked(r *http.Request, name string) bool {
	switch r.FormValue(name) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// isHTTPURL reports whether s is an absolute http or https URL.
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// --- Projects ---

type projectForm struct {
	ID          int64
	Title       string `label:"Title" validate:"required,max=200"`
	Description string `label:"Description" validate:"required,max=5000"`
	Image       string `label:"Image" validate:"required,max=2000"`
	Images      string `label:"Gallery"`
	Tech        string `label:"Tech" validate:"required"`
	GitHub      string `label:"GitHub" validate:"omitempty,url"`
	Live        string `label:"Live URL" validate:"omitempty,url"`
	Featured    bool
}

func projectFormFrom(p *models.Project) projectForm {
	return projectForm{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Images:      strings.Join(p.Images, "\n"),
		Tech:        strings.Join(p.Tech, ", "),
		GitHub:      p.GitHub,
		Live:        deref(p.Live),
		Featured:    p.Featured,
	}
}

func parseProjectForm(r *http.Request) projectForm {
	return projectForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Image:       strings.TrimSpace(r.FormValue("image")),
		Images:      r.FormValue("images"),
		Tech:        r.FormValue("tech"),
		GitHub:      strings.TrimSpace(r.FormValue("github")),
		Live:        strings.TrimSpace(r.FormValue("live")),
		Featured:    checked(r, "featured"),
	}
}

func (f projectForm) validate() FormErrors {
	errs := validateForm(f)
	if _, ok := errs["Tech"]; !ok && len(splitList(f.Tech)) == 0 {
		errs["Tech"] = "Tech needs at least one entry."
	}
	for _, u := range splitLines(f.Images) {
		if !isHTTPURL(u) && !strings.HasPrefix(u, "/") {
			errs["Gallery"] = fmt.Sprintf("%q is not a valid image URL.", u)
			break
		}
	}
	return errs
}

func (f projectForm) model() *models.Project {
	return &models.Project{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Image:       f.Image,
		Images:      splitLines(f.Images),
		Tech:        splitList(f.Tech),
		GitHub:      f.GitHub,
		Live:        optional(f.Live),
		Featured:    f.Featured,
	}
}

// --- Skills ---

type skillForm struct {
	ID       int64
	Name     string `label:"Name" validate:"required,max=100"`
	Category string `label:"Category" validate:"max=100"`
	Icon     string `label:"Icon" validate:"omitempty,url"`
	Level    string `label:"Level" validate:"omitempty,numeric"`
}

func skillFormFrom(sk *models.Skill) skillForm {
	f := skillForm{ID: sk.ID, Name: sk.Name, Category: sk.Category, Icon: deref(sk.Icon)}
	if sk.Level != nil {
		f.Level = strconv.Itoa(*sk.Level)
	}
	return f
}

func parseSkillForm(r *http.Request) skillForm {
	return skillForm{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Category: strings.TrimSpace(r.FormValue("category")),
		Icon:     strings.TrimSpace(r.FormValue("icon")),
		Level:    strings.TrimSpace(r.FormValue("level")),
	}
}

func (f skillForm) validate() FormErrors {
	errs := validateForm(f)
	if _, ok := errs["Level"]; !ok && f.Level != "" {
		if n, err := strconv.Atoi(f.Level); err != nil || n < 0 || n > 100 {
			errs["Level"] = "Level must be between 0 and 100."
		}
	}
	return errs
}

func (f skillForm) model() *models.Skill {
	sk := &models.Skill{
		ID:       f.ID,
		Name:     f.Name,
		Category: f.Category,
		Icon:     optional(f.Icon),
	}
	if n, err := strconv.Atoi(f.Level); err == nil {
		sk.Level = &n
	}
	return sk
}

// --- Blog ---

type blogForm struct {
	ID              int64
	Title           string `label:"Title" validate:"required,max=300"`
	Slug            string `label:"Slug" validate:"max=300"`
	Excerpt         string `label:"Excerpt" validate:"max=1000"`
	Content         string `label:"Content" validate:"required,max=100000"`
	FeaturedImage   string `label:"Featured image" validate:"max=2000"`
	Tags            string `label:"Tags"`
	MetaTitle       string `label:"Meta title" validate:"max=300"`
	MetaDescription string `label:"Meta description" validate:"max=500"`
	Published       bool
	Featured        bool
}

func blogFormFrom(p *models.BlogPost) blogForm {
	return blogForm{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Excerpt:         p.Excerpt,
		Content:         p.Content,
		FeaturedImage:   p.FeaturedImage,
		Tags:            strings.Join(p.Tags, ", "),
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Published:       p.Published,
		Featured:        p.Featured,
	}
}

// parseBlogForm reads the form and derives the slug from the title when
// the slug field is blank.
func parseBlogForm(r *http.Request) blogForm {
	f := blogForm{
		Title:           strings.TrimSpace(r.FormValue("title")),
		Excerpt:         strings.TrimSpace(r.FormValue("excerpt")),
		Content:         r.FormValue("content"),
		FeaturedImage:   strings.TrimSpace(r.FormValue("featured_image")),
		Tags:            r.FormValue("tags"),
		MetaTitle:       strings.TrimSpace(r.FormValue("meta_title")),
		MetaDescription: strings.TrimSpace(r.FormValue("meta_description")),
		Published:       checked(r, "published"),
		Featured:        checked(r, "featured"),
	}
	f.Slug = slug.OrGenerate(r.FormValue("slug"), f.Title)
	return f
}

func (f blogForm) validate() FormErrors {
	errs := validateForm(f)
	if strings.TrimSpace(f.Content) == "" {
		errs["Content"] = "Content is required."
	}
	if _, ok := errs["Slug"]; !ok && f.Slug == "" && f.Title != "" {
		errs["Slug"] = "Slug could not be derived from the title."
	}
	return errs
}

func (f blogForm) model() *models.BlogPost {
	return &models.BlogPost{
		ID:              f.ID,
		Title:           f.Title,
		Slug:            f.Slug,
		Excerpt:         f.Excerpt,
		Content:         f.Content,
		FeaturedImage:   f.FeaturedImage,
		Published:       f.Published,
		Featured:        f.Featured,
		Tags:            splitList(f.Tags),
		MetaTitle:       f.MetaTitle,
		MetaDescription: f.MetaDescription,
	}
}

// --- Profile ---

type profileForm struct {
	FullName  string `label:"Full name" validate:"required,max=200"`
	Role      string `label:"Role" validate:"max=200"`
	Bio       string `label:"Bio" validate:"max=5000"`
	Email     string `label:"Email" validate:"omitempty,email"`
	GitHub    string `label:"GitHub" validate:"omitempty,url"`
	LinkedIn  string `label:"LinkedIn" validate:"omitempty,url"`
	Twitter   string `label:"Twitter" validate:"omitempty,url"`
	Instagram string `label:"Instagram" validate:"omitempty,url"`
	ResumeURL string `label:"Resume URL" validate:"omitempty,url"`
	AvatarURL string `label:"Avatar URL" validate:"omitempty,url"`
}

func profileFormFrom(p *models.Profile) profileForm {
	if p == nil {
		return profileForm{}
	}
	return profileForm{
		FullName:  p.FullName,
		Role:      p.Role,
		Bio:       p.Bio,
		Email:     p.Email,
		GitHub:    p.GitHub,
		LinkedIn:  p.LinkedIn,
		Twitter:   deref(p.Twitter),
		Instagram: deref(p.Instagram),
		ResumeURL: deref(p.ResumeURL),
		AvatarURL: deref(p.AvatarURL),
	}
}

func parseProfileForm(r *http.Request) profileForm {
	v := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	return profileForm{
		FullName:  v("full_name"),
		Role:      v("role"),
		Bio:       v("bio"),
		Email:     v("email"),
		GitHub:    v("github"),
		LinkedIn:  v("linkedin"),
		Twitter:   v("twitter"),
		Instagram: v("instagram"),
		ResumeURL: v("resume_url"),
		AvatarURL: v("avatar_url"),
	}
}

// apply copies the form onto the stored profile, keeping its id.
func (f profileForm) apply(p *models.Profile) {
	p.FullName = f.FullName
	p.Role = f.Role
	p.Bio = f.Bio
	p.Email = f.Email
	p.GitHub = f.GitHub
	p.LinkedIn = f.LinkedIn
	p.Twitter = optional(f.Twitter)
	p.Instagram = optional(f.Instagram)
	p.ResumeURL = optional(f.ResumeURL)
	p.AvatarURL = optional(f.AvatarURL)
}

// --- Contact ---

type contactForm struct {
	Name    string `label:"Name" validate:"required,max=100"`
	Email   string `label:"Email" validate:"required,email"`
	Message string `label:"Message" validate:"required,max=5000"`
}

func parseContactForm(r *http.Request) contactForm {
	return contactForm{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
}

// firstError returns one message in a stable field order.
func firstError(errs FormErrors, order ...string) string {
	for _, k := range order {
		if msg, ok := errs[k]; ok {
			return msg
		}
	}
	for _, msg := range errs {
		return msg
	}
	return ""
}
