package httpserver

import (
	"embed"
	"html/template"
	"net/http"
	"slices"

	"go.uber.org/zap"

	"github.com/bryanwahyu/supplychain-insight/internal/application/dashboard"
	domai "github.com/bryanwahyu/supplychain-insight/internal/domain/ai"
	"github.com/bryanwahyu/supplychain-insight/internal/domain/procurement"
	"github.com/bryanwahyu/supplychain-insight/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Categories []procurement.Category
	Models     []string
	Vendors    []string
	Selected   procurement.AnalysisRequest
	Dashboard  *dashboard.Dashboard
	Analysis   *dashboard.Analysis
	Error      string
	// History is newest first.
	History []procurement.HistoryEntry
}

// GET /?category=&vendor=&model=
func (r *Router) handlePage(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	data := r.basePage(req)
	ar, err := middleware.ValidateRequest(q.Get("category"), q.Get("vendor"), q.Get("model"))
	if err != nil {
		r.renderPage(w, req, statusFor(err), data, err)
		return
	}
	data.Selected = ar

	d, err := r.svc.Metrics(req.Context(), ar)
	if err != nil {
		r.renderPage(w, req, statusFor(err), data, err)
		return
	}
	data.Dashboard = d
	r.renderPage(w, req, http.StatusOK, data, nil)
}

// POST /analyze (form fields category, vendor, model)
func (r *Router) handlePageAnalyze(w http.ResponseWriter, req *http.Request) {
	data := r.basePage(req)
	if err := req.ParseForm(); err != nil {
		r.renderPage(w, req, http.StatusBadRequest, data, &middleware.ValidationError{Field: "form", Msg: err.Error()})
		return
	}
	ar, err := middleware.ValidateRequest(req.PostForm.Get("category"), req.PostForm.Get("vendor"), req.PostForm.Get("model"))
	if err != nil {
		r.renderPage(w, req, statusFor(err), data, err)
		return
	}
	data.Selected = ar

	a, err := r.svc.Analyze(req.Context(), middleware.SessionFrom(req.Context()), ar)
	if err != nil {
		// Tiles stay visible when only the completion failed.
		if d, derr := r.svc.Metrics(req.Context(), ar); derr == nil {
			data.Dashboard = d
		}
		r.renderPage(w, req, statusFor(err), data, err)
		return
	}
	data.Dashboard = &a.Dashboard
	data.Analysis = a
	r.renderPage(w, req, http.StatusOK, data, nil)
}

func (r *Router) basePage(req *http.Request) pageData {
	data := pageData{
		Categories: procurement.Categories(),
		Models:     domai.Models,
		Selected:   procurement.AnalysisRequest{Category: procurement.CategorySpend, Model: domai.DefaultModel},
	}
	if vendors, err := r.svc.Options(req.Context()); err == nil {
		data.Vendors = vendors.Vendors
	} else {
		r.log.Warn("vendor list unavailable", zap.Error(err))
	}
	return data
}

func (r *Router) renderPage(w http.ResponseWriter, req *http.Request, status int, data pageData, err error) {
	if err != nil {
		data.Error = userMessage(err)
		if status >= 500 {
			r.log.Error("page request failed", zap.String("path", req.URL.Path), zap.Error(err))
		}
	}
	// Read history after the analysis so a fresh entry shows up.
	if s := middleware.SessionFrom(req.Context()); s != nil {
		data.History = s.History()
		slices.Reverse(data.History)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if terr := pageTmpl.Execute(w, data); terr != nil {
		r.log.Error("render page", zap.Error(terr))
	}
}

// userMessage is the text shown in the page's error banner.
func userMessage(err error) string {
	switch statusFor(err) {
	case http.StatusConflict:
		return "An analysis is already running for this session. Please wait for it to finish."
	case http.StatusTooManyRequests:
		return "The AI service quota is exhausted. Please try again later."
	case http.StatusBadGateway:
		return "Error generating analysis: " + err.Error()
	default:
		return err.Error()
	}
}
