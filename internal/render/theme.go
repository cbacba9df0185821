// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import "net/http"

// ThemeCookie holds the visitor's color theme.
const ThemeCookie = "theme-color"

// DefaultTheme applies when no valid theme cookie is present.
const DefaultTheme = "green"

// Themes lists the selectable color themes.
var Themes = []string{"green", "blue", "purple", "orange", "pink"}

// ValidTheme reports whether name is a known theme.
func ValidTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}

// ThemeFromRequest returns the theme stored in the request cookie, or
// DefaultTheme.
func ThemeFromRequest(r *http.Request) string {
	c, err := r.Cookie(ThemeCookie)
	if err != nil || !ValidTheme(c.Value) {
		return DefaultTheme
	}
	return c.Value
}

// SetTheme persists theme for a year. Unknown themes are ignored.
func SetTheme(w http.ResponseWriter, theme string, secure bool) bool {
	if !ValidTheme(theme) {
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookie,
		Value:    theme,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}
