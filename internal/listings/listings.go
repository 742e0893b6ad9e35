// internal/listings/listings.go

// Package listings loads the prefetched RFP listings file and picks which
// proposal to process: the nearest future due date inside the configured
// window, falling back to the most recent past one.
package listings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rfp-bid-engine/internal/common/config"
	"rfp-bid-engine/internal/common/errors"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/common/validation"
	"rfp-bid-engine/internal/models"
)

var listingsSchema = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"rfp_id", "title", "url", "due_date"},
		"properties": map[string]interface{}{
			"rfp_id":   map[string]interface{}{"type": "string", "minLength": 1},
			"title":    map[string]interface{}{"type": "string", "minLength": 1},
			"url":      map[string]interface{}{"type": "string", "minLength": 1},
			"due_date": map[string]interface{}{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		},
	},
}

type Selector struct {
	cfg config.ListingsConfig
	log logger.Logger

	now func() time.Time
}

func NewSelector(cfg config.ListingsConfig, log logger.Logger) *Selector {
	return &Selector{cfg: cfg, log: log, now: time.Now}
}

// Load reads and validates the listings JSON file.
func (s *Selector) Load() ([]models.RFPListing, error) {
	data, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("read listings file: %w", err)
	}

	if result := validation.ValidateBytes(listingsSchema, data); !result.Valid {
		return nil, fmt.Errorf("invalid listings file: %s: %s",
			result.Errors[0].Field, result.Errors[0].Message)
	}

	var entries []models.RFPListing
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode listings file: %w", err)
	}

	s.log.Info("loaded rfp listings", map[string]interface{}{
		"path":  s.cfg.Path,
		"count": len(entries),
	})
	return entries, nil
}

// Pick selects the listing to process. Listings due within the window win;
// among them the nearest future deadline. When nothing is in-window the
// nearest future deadline overall wins, then the most recent past one.
func (s *Selector) Pick(entries []models.RFPListing) (*models.RFPListing, error) {
	if len(entries) == 0 {
		return nil, errors.NewNoListingAvailableError("listings file is empty")
	}

	today := s.now().Truncate(24 * time.Hour)
	windowEnd := today.AddDate(0, s.cfg.DueWithinMonths, 0)

	inWindow := make([]models.RFPListing, 0, len(entries))
	for _, l := range entries {
		d, ok := parseDue(l.DueDate)
		if !ok {
			continue
		}
		if !d.Before(today) && !d.After(windowEnd) {
			inWindow = append(inWindow, l)
		}
	}

	pool := inWindow
	if len(pool) == 0 {
		pool = entries
	}

	var futureBest, pastBest *models.RFPListing
	var futureDue, pastDue time.Time
	for i := range pool {
		d, ok := parseDue(pool[i].DueDate)
		if !ok {
			continue
		}
		if !d.Before(today) {
			if futureBest == nil || d.Before(futureDue) {
				futureBest, futureDue = &pool[i], d
			}
		} else {
			if pastBest == nil || d.After(pastDue) {
				pastBest, pastDue = &pool[i], d
			}
		}
	}

	best := futureBest
	if best == nil {
		best = pastBest
	}
	if best == nil {
		// No parseable due date anywhere; take the first entry.
		best = &pool[0]
	}

	s.log.Info("picked rfp listing", map[string]interface{}{
		"rfpId":   best.RFPID,
		"title":   best.Title,
		"dueDate": best.DueDate,
	})
	return best, nil
}

// ReadDocument loads the proposal text for a listing. The url field is a
// path relative to the configured document base directory; raw text
// extraction from binary formats happens upstream.
func (s *Selector) ReadDocument(listing *models.RFPListing) (string, error) {
	path := filepath.Join(s.cfg.DocumentBaseDir, listing.URL)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read proposal document %s: %w", path, err)
	}
	return string(data), nil
}

func parseDue(s string) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
