package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/glassquote/internal/catalog"
	"github.com/Simplici0/glassquote/internal/docstore"
	"github.com/Simplici0/glassquote/internal/pricing"
	"github.com/Simplici0/glassquote/internal/proposal"
	"github.com/Simplici0/glassquote/internal/render"
)

// maxWorkPhotos is how many portfolio photos go on the last page of a proposal.
const maxWorkPhotos = 6

// calculate reloads the catalog and prices req.
func (s *server) calculate(req pricing.Request) (*pricing.Result, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveCalculation(time.Since(start)) }()

	cat, err := s.catalog.Load()
	if err != nil {
		s.metrics.CalculationResult(false)
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	result, err := s.engine.Calculate(req, cat, s.catalog.LoadTexts())
	s.metrics.CalculationResult(err == nil)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *server) document(number string, date time.Time, summary pricing.Summary) render.Document {
	return render.Document{
		Number:    number,
		Date:      date,
		Company:   s.catalog.LoadCompany(),
		Summary:   summary,
		Terms:     catalog.DefaultTerms(),
		LogoPath:  render.FindLogo(s.cfg.AssetsDir),
		WorkPaths: render.FindWorks(s.cfg.AssetsDir, maxWorkPhotos),
		FontPath:  s.cfg.FontPath,
	}
}

// maxNumberAttempts bounds how many _N suffixes are tried for one proposal number.
const maxNumberAttempts = 50

// errNumberTaken means another proposal already holds the candidate number.
var errNumberTaken = errors.New("proposal number taken")

// issueProposal prices req, renders the PDF, stores it and records the proposal.
// Requests issued within the same second get _2, _3 and so on appended to the number.
func (s *server) issueProposal(ctx context.Context, req pricing.Request, manager string) (proposal.Proposal, error) {
	result, err := s.calculate(req)
	if err != nil {
		return proposal.Proposal{}, err
	}
	summary := pricing.Summarize(result)

	now := s.now()
	base := proposal.Number(now)
	for n := 1; n <= maxNumberAttempts; n++ {
		p, err := s.issueAs(ctx, proposal.WithSuffix(base, n), now, summary, manager)
		if errors.Is(err, errNumberTaken) {
			continue
		}
		if err != nil {
			return proposal.Proposal{}, err
		}

		s.metrics.ProposalCreated()
		s.logger.Info().
			Int64("proposal_id", p.ID).
			Str("number", p.Number).
			Float64("total", p.Total).
			Str("manager", manager).
			Msg("proposal_created")
		return p, nil
	}
	return proposal.Proposal{}, fmt.Errorf("no free proposal number after %s", proposal.WithSuffix(base, maxNumberAttempts))
}

// issueAs claims number by storing its PDF exclusively, then records the proposal.
// The stored PDF is removed again when the record cannot be written.
func (s *server) issueAs(ctx context.Context, number string, now time.Time, summary pricing.Summary, manager string) (proposal.Proposal, error) {
	if _, err := s.proposals.GetByNumber(ctx, number); err == nil {
		return proposal.Proposal{}, errNumberTaken
	} else if !errors.Is(err, proposal.ErrNotFound) {
		return proposal.Proposal{}, fmt.Errorf("look up proposal number: %w", err)
	}

	pdf, err := render.PDF(s.document(number, now, summary))
	if err != nil {
		return proposal.Proposal{}, fmt.Errorf("render pdf: %w", err)
	}
	s.metrics.DocumentRendered("pdf", len(pdf))

	filename, err := s.docs.Save(ctx, number+".pdf", bytes.NewReader(pdf))
	if errors.Is(err, docstore.ErrExists) {
		return proposal.Proposal{}, errNumberTaken
	}
	if err != nil {
		return proposal.Proposal{}, fmt.Errorf("store pdf: %w", err)
	}

	p, err := s.proposals.Create(ctx, proposal.NewProposal{
		Number:     number,
		CreatedAt:  now,
		Total:      summary.Total,
		PDFPath:    filename,
		Items:      summary.Items,
		Deliveries: summary.Deliveries,
		Manager:    manager,
	})
	if err != nil {
		if rmErr := s.docs.Remove(filename); rmErr != nil {
			s.logger.Error().Err(rmErr).Str("file", filename).Msg("remove_orphan_pdf")
		}
		if errors.Is(err, proposal.ErrDuplicateNumber) {
			return proposal.Proposal{}, errNumberTaken
		}
		return proposal.Proposal{}, err
	}
	return p, nil
}
