package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/glassquote/internal/catalog"
	"github.com/Simplici0/glassquote/internal/docstore"
	"github.com/Simplici0/glassquote/internal/pricing"
)

type managerFormViewData struct {
	baseViewData
	Products []catalog.Product
	Cities   []string
	Limits   pricing.Limits
}

type previewViewData struct {
	baseViewData
	Summary  pricing.Summary
	Result   *pricing.Result
	DataJSON string
}

type pdfReadyViewData struct {
	baseViewData
	ID       int64
	Number   string
	Filename string
}

func (s *server) handleManagerForm(w http.ResponseWriter, r *http.Request) {
	s.renderManagerForm(w, http.StatusOK, "")
}

func (s *server) renderManagerForm(w http.ResponseWriter, status int, errMsg string) {
	data := managerFormViewData{
		baseViewData: baseViewData{ErrorMessage: errMsg},
		Limits:       s.cfg.Limits(),
	}

	cat, err := s.catalog.Load()
	if err != nil {
		s.logger.Error().Err(err).Msg("load_catalog")
		data.ErrorMessage = "Каталог товаров недоступен"
		s.renderTemplate(w, http.StatusInternalServerError, "manager_form.html", data)
		return
	}
	data.Products = catalog.SortedProducts(cat.Products)
	for city := range cat.Services.Delivery {
		data.Cities = append(data.Cities, city)
	}
	sort.Strings(data.Cities)

	s.renderTemplate(w, status, "manager_form.html", data)
}

// formQuoteRequest reads the data_json field of a manager form.
func (s *server) formQuoteRequest(w http.ResponseWriter, r *http.Request) (pricing.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseForm(); err != nil {
		return pricing.Request{}, &requestError{msg: "некорректная форма"}
	}
	raw := strings.TrimSpace(r.PostFormValue("data_json"))
	if raw == "" {
		return pricing.Request{}, &requestError{msg: "нет данных для расчёта"}
	}
	return s.decodeQuoteRequest([]byte(raw))
}

// managerQuoteFailed re-renders the form for rejected input and reports anything else as a server error.
func (s *server) managerQuoteFailed(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) || pricing.IsValidation(err) {
		s.renderManagerForm(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error().Err(err).Msg("manager_quote_failed")
	s.renderManagerForm(w, http.StatusInternalServerError, "Не удалось выполнить расчёт")
}

func (s *server) handleManagerPreview(w http.ResponseWriter, r *http.Request) {
	req, err := s.formQuoteRequest(w, r)
	if err != nil {
		s.managerQuoteFailed(w, err)
		return
	}
	result, err := s.calculate(req)
	if err != nil {
		s.managerQuoteFailed(w, err)
		return
	}

	canonical, err := json.Marshal(req)
	if err != nil {
		s.managerQuoteFailed(w, err)
		return
	}
	s.renderTemplate(w, http.StatusOK, "manager_preview.html", previewViewData{
		Summary:  pricing.Summarize(result),
		Result:   result,
		DataJSON: string(canonical),
	})
}

func (s *server) handleManagerPDF(w http.ResponseWriter, r *http.Request) {
	req, err := s.formQuoteRequest(w, r)
	if err != nil {
		s.managerQuoteFailed(w, err)
		return
	}
	p, err := s.issueProposal(r.Context(), req, managerFromContext(r.Context()))
	if err != nil {
		s.managerQuoteFailed(w, err)
		return
	}
	s.renderTemplate(w, http.StatusOK, "manager_pdf_ready.html", pdfReadyViewData{
		baseViewData: baseViewData{SuccessMessage: "КП сформировано"},
		ID:           p.ID,
		Number:       p.Number,
		Filename:     p.PDFPath,
	})
}

func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	f, err := s.docs.Open(name)
	switch {
	case errors.Is(err, docstore.ErrInvalidName), errors.Is(err, docstore.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		s.logger.Error().Err(err).Str("file", name).Msg("open_document")
		http.Error(w, "failed to open document", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	modTime := time.Time{}
	if info, err := f.Stat(); err == nil {
		modTime = info.ModTime()
	}
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		w.Header().Set("Content-Type", "application/pdf")
	}
	setAttachment(w, name)
	http.ServeContent(w, r, name, modTime, f)
}

func setAttachment(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(name))
}
