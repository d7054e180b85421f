package selection

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/cli/ui"
	"github.com/nkaewam/catalogctl/internal/config"
	"github.com/nkaewam/catalogctl/internal/picker"
)

// Service runs the interactive product picker
type Service interface {
	// Pick lets the admin choose up to the configured number of products.
	// Cancelling returns preselected unchanged.
	Pick(ctx context.Context, products []catalog.Product, preselected []string) ([]string, error)
}

// service implements Service interface
type service struct {
	ui  ui.Service
	max int
}

// ProvideSelectionService creates a new selection service
// @Provider
func ProvideSelectionService(cfg *config.Config, uiService ui.Service) Service {
	return NewService(uiService, cfg.Picker.MaxSelection)
}

func NewService(uiService ui.Service, limit int) Service {
	return &service{ui: uiService, max: limit}
}

func (s *service) Pick(ctx context.Context, products []catalog.Product, preselected []string) ([]string, error) {
	p := picker.New(products, s.max, preselected...)
	for {
		if err := ctx.Err(); err != nil {
			return p.Cancel(), err
		}

		visible := p.Visible()
		rows := make([][]string, 0, len(visible))
		for i, prod := range visible {
			mark := "[ ]"
			if p.IsSelected(prod.ID) {
				mark = "[x]"
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), mark, prod.Title, prod.ProductType})
		}
		s.ui.Table([]string{"#", "SEL", "TITLE", "TYPE"}, rows)
		s.ui.Info("%d/%d selected. Number toggles, /text filters, done confirms, cancel discards.", len(p.Confirm()), p.Max())

		answer, err := s.ui.Prompt("Select", "")
		if errors.Is(err, ui.ErrNoInput) {
			return p.Cancel(), nil
		}
		if err != nil {
			return p.Cancel(), err
		}

		switch {
		case answer == "":
		case strings.EqualFold(answer, "done"):
			return p.Confirm(), nil
		case strings.EqualFold(answer, "cancel"):
			return p.Cancel(), nil
		case strings.HasPrefix(answer, "/"):
			p.SetFilter(strings.TrimSpace(answer[1:]))
		default:
			n, err := strconv.Atoi(answer)
			if err != nil || n < 1 || n > len(visible) {
				s.ui.Fail("Enter a number between 1 and %d", len(visible))
				continue
			}
			notice, err := p.Toggle(visible[n-1].ID)
			if errors.Is(err, picker.ErrSelectionFull) {
				s.ui.Fail("%s", notice)
			} else if err != nil {
				s.ui.Fail("%s", err.Error())
			}
		}
	}
}
