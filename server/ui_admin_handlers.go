package server

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/secondbloom/admin-dashboard/apiclient"
	"github.com/secondbloom/admin-dashboard/internal/utils"
	"github.com/secondbloom/admin-dashboard/users"
)

const (
	msgProfileUpdated      = "Profile updated successfully!"
	msgProfileUpdateFailed = "Failed to update profile"
)

type navItem struct {
	Name   string
	Href   string
	Icon   string
	Active bool
}

var navigation = []navItem{
	{Name: "Dashboard", Href: RouteDashboard, Icon: "📊"},
	{Name: "Categories", Href: RouteDashboardCategories, Icon: "📁"},
	{Name: "Products", Href: RouteDashboardProducts, Icon: "📦"},
	{Name: "Orders", Href: RouteDashboardOrders, Icon: "🛒"},
	{Name: "Users", Href: RouteDashboardUsers, Icon: "👥"},
	{Name: "Reports", Href: RouteDashboardReports, Icon: "🚨"},
	{Name: "Reviews", Href: RouteDashboardReviews, Icon: "⭐"},
	{Name: "Chat", Href: RouteDashboardChat, Icon: "💬"},
	{Name: "Settings", Href: RouteDashboardSettings, Icon: "⚙️"},
}

func navigationFor(path string) []navItem {
	items := make([]navItem, len(navigation))
	copy(items, navigation)
	for i := range items {
		items[i].Active = items[i].Href == path
	}
	return items
}

// renderAdminPage renders content inside the admin layout. Content is rendered to a
// buffer first so a template failure never leaves a half-written page.
func (s *Server) renderAdminPage(w http.ResponseWriter, r *http.Request, pageTitle string, content *template.Template, contentData any) {
	user := storeFromRequest(r).User()

	var contentBuf bytes.Buffer
	if err := content.Execute(&contentBuf, contentData); err != nil {
		log.Err(err).Str("page", pageTitle).Msg("Failed to render content")
		http.Error(w, "Failed to render content", http.StatusInternalServerError)
		return
	}

	role := string(users.RoleAdmin)
	if user != nil && user.Role != "" {
		role = string(user.Role)
	}
	data := map[string]interface{}{
		"AppName":     s.config.GetAppName(),
		"PageTitle":   pageTitle,
		"Navigation":  navigationFor(r.URL.Path),
		"UserName":    user.DisplayName(),
		"UserInitial": user.Initial(),
		"UserRole":    role,
		"Error":       r.URL.Query().Get("error"),
		"Notice":      r.URL.Query().Get("notice"),
		"Content":     template.HTML(contentBuf.String()),
	}

	var page bytes.Buffer
	if err := s.layout.Execute(&page, data); err != nil {
		log.Err(err).Msg("Failed to render layout")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	_, _ = page.WriteTo(w)
}

// DashboardHandler renders the overview page
func (s *Server) DashboardHandler() http.HandlerFunc {
	content := mustParseTemplate("dashboard_content.html")
	return func(w http.ResponseWriter, r *http.Request) {
		user := storeFromRequest(r).User()
		sections := make([]navItem, 0, len(navigation))
		for _, item := range navigation {
			if item.Href != RouteDashboard {
				sections = append(sections, item)
			}
		}
		s.renderAdminPage(w, r, "Dashboard", content, map[string]interface{}{
			"UserName": user.DisplayName(),
			"Sections": sections,
		})
	}
}

// PlaceholderHandler renders a section whose screens live outside this service
func (s *Server) PlaceholderHandler(page, title string) http.HandlerFunc {
	content := mustParseTemplate("placeholder_content.html")
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderAdminPage(w, r, title, content, map[string]interface{}{
			"Page":  page,
			"Title": title,
		})
	}
}

// SettingsPageData is the profile form model
type SettingsPageData struct {
	UserID      string
	PhoneNumber string
	FirstName   string
	LastName    string
	Email       string
	Role        string
	IsActive    bool
	MemberSince string
}

// SettingsGetHandler shows the profile form
func (s *Server) SettingsGetHandler() http.HandlerFunc {
	content := mustParseTemplate("settings_content.html")
	return func(w http.ResponseWriter, r *http.Request) {
		user := storeFromRequest(r).User()
		if user == nil {
			redirectSuccess(w, r, RouteLogin)
			return
		}
		data := SettingsPageData{
			UserID:      user.ID,
			PhoneNumber: user.PhoneNumber,
			FirstName:   utils.Value(user.FirstName),
			LastName:    utils.Value(user.LastName),
			Email:       utils.Value(user.Email),
			Role:        string(user.Role),
			IsActive:    user.IsActive,
		}
		if user.CreatedAt != nil {
			data.MemberSince = user.CreatedAt.Format("Jan 2, 2006")
		}
		s.renderAdminPage(w, r, "Settings", content, data)
	}
}

// SettingsPostHandler patches the profile and replaces the user in the session
func (s *Server) SettingsPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		store := storeFromRequest(r)
		user := store.User()
		if user == nil {
			redirectSuccess(w, r, RouteLogin)
			return
		}

		update := users.ProfileUpdate{
			FirstName: utils.Ptr(strings.TrimSpace(r.FormValue("firstName"))),
			LastName:  utils.Ptr(strings.TrimSpace(r.FormValue("lastName"))),
			Email:     utils.PtrOrNil(strings.TrimSpace(r.FormValue("email"))),
		}

		if _, err := s.api.UpdateUser(r.Context(), store.AccessToken(), user.ID, update); err != nil {
			if apiclient.IsUnauthorized(err) {
				if err := store.Logout(r.Context()); err != nil {
					log.Err(err).Msg("unable to clear rejected session")
				}
				redirectWithError(w, r, RouteLogin, msgSessionExpired)
				return
			}
			log.Err(err).Str("userId", user.ID).Msg("profile update failed")
			redirectWithError(w, r, RouteDashboardSettings, apiclient.MessageOr(err, msgProfileUpdateFailed))
			return
		}

		if err := store.ReplaceUser(r.Context(), user.WithProfile(update)); err != nil {
			log.Err(err).Msg("unable to persist updated profile")
		}
		redirectWithNotice(w, r, RouteDashboardSettings, msgProfileUpdated)
	}
}
