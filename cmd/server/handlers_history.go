package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/glassquote/internal/pricing"
	"github.com/Simplici0/glassquote/internal/proposal"
	"github.com/Simplici0/glassquote/internal/render"
)

const (
	historyPageSize = 100
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type historyListViewData struct {
	baseViewData
	Proposals []proposal.Proposal
}

type historyViewData struct {
	baseViewData
	Proposal proposal.Proposal
}

func (s *server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	proposals, err := s.proposals.List(r.Context(), historyPageSize, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("list_proposals")
		http.Error(w, "failed to load proposals", http.StatusInternalServerError)
		return
	}
	s.renderTemplate(w, http.StatusOK, "history_list.html", historyListViewData{Proposals: proposals})
}

// loadProposal resolves the {id} route parameter, writing 404 when it names no proposal.
func (s *server) loadProposal(w http.ResponseWriter, r *http.Request) (proposal.Proposal, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return proposal.Proposal{}, false
	}

	p, err := s.proposals.Get(r.Context(), id)
	if errors.Is(err, proposal.ErrNotFound) {
		http.NotFound(w, r)
		return proposal.Proposal{}, false
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("proposal_id", id).Msg("get_proposal")
		http.Error(w, "failed to load proposal", http.StatusInternalServerError)
		return proposal.Proposal{}, false
	}
	return p, true
}

func (s *server) handleHistoryView(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProposal(w, r)
	if !ok {
		return
	}
	s.renderTemplate(w, http.StatusOK, "history_view.html", historyViewData{Proposal: p})
}

func (s *server) handleHistoryXLSX(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProposal(w, r)
	if !ok {
		return
	}

	summary := pricing.Summary{Items: p.Items, Deliveries: p.Deliveries, Total: p.Total}
	data, err := render.XLSX(s.document(p.Number, p.CreatedAt, summary))
	if err != nil {
		s.logger.Error().Err(err).Int64("proposal_id", p.ID).Msg("render_xlsx")
		http.Error(w, "failed to render spreadsheet", http.StatusInternalServerError)
		return
	}
	s.metrics.DocumentRendered("xlsx", len(data))

	w.Header().Set("Content-Type", xlsxContentType)
	setAttachment(w, p.Number+".xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
