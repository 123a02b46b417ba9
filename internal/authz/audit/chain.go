package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"authcore/internal/authz/model"
	"authcore/internal/authz/repository"
	"authcore/internal/authz/util"

	"github.com/google/uuid"
)

// ErrWrite marks an audit append that could not be made durable. Callers
// must treat it as fatal to the triggering operation: a privileged action
// may not commit unaudited.
var ErrWrite = errors.New("audit write failed")

// maxAppendRetries bounds retries when two appends race for the same
// sequence position.
const maxAppendRetries = 5

// Chain is the append-only, hash-linked audit ledger. Each record's hash
// covers its own content; its previous-hash field equals the prior
// record's hash, so silent alteration anywhere in the chain is detectable.
type Chain struct {
	repo repository.AuditRepository
	log  *slog.Logger
}

func NewChain(repo repository.AuditRepository) *Chain {
	return &Chain{
		repo: repo,
		log:  util.GetLogger(),
	}
}

// Append normalizes the entry, links it to the current tail, and persists
// it at the next sequence position. The unique sequence index arbitrates
// concurrent appends: exactly one writer wins a position, the loser
// re-reads the tail and retries.
func (c *Chain) Append(ctx context.Context, e Entry) (*model.AuditRecord, error) {
	rec := normalize(e)
	rec.ID = uuid.NewString()

	for attempt := 1; attempt <= maxAppendRetries; attempt++ {
		tail, err := c.repo.Tail(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: reading chain tail: %v", ErrWrite, err)
		}

		if tail == nil {
			rec.Sequence = 1
			rec.PreviousHash = ""
		} else {
			rec.Sequence = tail.Sequence + 1
			rec.PreviousHash = tail.Hash
		}
		rec.Hash = ComputeHash(rec)

		err = c.repo.InsertRecord(ctx, rec)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %v", ErrWrite, err)
		}
		c.log.Warn("audit sequence conflict, retrying against new tail",
			"sequence", rec.Sequence, "attempt", attempt)
	}

	return nil, fmt.Errorf("%w: sequence contention after %d attempts", ErrWrite, maxAppendRetries)
}

// Find lists records matching the filter, newest first.
func (c *Chain) Find(ctx context.Context, req model.GetAuditRecordsReq) ([]*model.AuditRecord, int64, error) {
	return c.repo.FindRecords(ctx, req)
}

// VerifyIntegrity walks the chain in sequence order and collects every
// position whose previous-hash pointer does not match the prior record's
// hash. It never stops at the first break: the output is a forensic
// finding, not an enforcement fault.
func (c *Chain) VerifyIntegrity(ctx context.Context) (*model.IntegrityReport, error) {
	report := &model.IntegrityReport{BrokenLinks: []model.BrokenLink{}}

	var prevHash string
	err := c.repo.ScanSequence(ctx, func(rec *model.AuditRecord) error {
		if rec.PreviousHash != prevHash {
			report.BrokenLinks = append(report.BrokenLinks, model.BrokenLink{
				Position:             rec.Sequence,
				ExpectedPreviousHash: prevHash,
				ActualPreviousHash:   rec.PreviousHash,
			})
		}
		prevHash = rec.Hash
		report.TotalRecords++
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !report.Intact() {
		c.log.Warn("audit chain integrity violation detected",
			"total_records", report.TotalRecords,
			"broken_links", len(report.BrokenLinks))
	}
	return report, nil
}
