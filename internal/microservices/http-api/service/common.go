package service

import (
	"errors"
	"log/slog"

	"recipehub/internal/config"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/shared"

	"github.com/google/uuid"
)

// PageRequest is a 1-based page number and a page size.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request to a valid page, using defaultSize when Limit is unset.
func (p PageRequest) Normalize(defaultSize int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultSize
	}
	if p.Limit > config.MaxPageSize {
		p.Limit = config.MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// integrityError logs a constraint violation no precondition check anticipated and
// converts it to an Integrity error. Other errors pass through unchanged.
func integrityError(log *slog.Logger, op string, err error) error {
	if errors.Is(err, repository.ErrDuplicate) ||
		errors.Is(err, repository.ErrCheckViolation) ||
		errors.Is(err, repository.ErrForeignKey) {
		log.Error("integrity violation", "op", op, "error", err)
		return shared.Integrity(op+" failed", err)
	}
	return err
}

func requireViewer(viewer shared.Viewer) error {
	if viewer.Anonymous() {
		return shared.Unauthorized("authentication credentials were not provided")
	}
	return nil
}

// canonicalUserID returns id in the form user rows are keyed by. ok is false when
// id is not a uuid, such ids address no user.
func canonicalUserID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func uniqueInt64(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
