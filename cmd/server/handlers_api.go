package main

import (
	"io"
	"net/http"
)

func (s *server) handleAPICalculate(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "не удалось прочитать тело запроса")
		return
	}
	req, err := s.decodeQuoteRequest(raw)
	if err != nil {
		s.writeQuoteError(w, err)
		return
	}

	result, err := s.calculate(req)
	if err != nil {
		s.writeQuoteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type pdfResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
	Number string `json:"number"`
	File   string `json:"file"`
}

func (s *server) handleAPIPDF(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "не удалось прочитать тело запроса")
		return
	}
	req, err := s.decodeQuoteRequest(raw)
	if err != nil {
		s.writeQuoteError(w, err)
		return
	}

	p, err := s.issueProposal(r.Context(), req, "")
	if err != nil {
		s.writeQuoteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pdfResponse{Status: "ok", ID: p.ID, Number: p.Number, File: p.PDFPath})
}
