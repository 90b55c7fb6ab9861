package state

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/five82/stockroom/internal/catalog"
)

const unknownErrorMessage = "unknown error"

// Source is the remote product data the orchestrator reads from.
type Source interface {
	ListProducts(ctx context.Context, params catalog.ListParams) (catalog.ProductPage, error)
	SearchProducts(ctx context.Context, query string, params catalog.ListParams) (catalog.ProductPage, error)
}

// Request describes exactly one outbound listing call.
type Request struct {
	Seq    uint64
	Mode   Mode
	Text   string // trimmed search text, empty in list mode
	Params catalog.ListParams
}

// Outcome is the result of running a Request.
type Outcome struct {
	Seq    uint64
	Result Result
	Err    error
}

// Fetch issues req against src. It never panics on remote failures; errors
// are carried in the Outcome for Store.Apply.
func Fetch(ctx context.Context, src Source, req Request) Outcome {
	out := Outcome{Seq: req.Seq}
	if src == nil {
		out.Err = errors.New("no product source configured")
		return out
	}

	var (
		page catalog.ProductPage
		err  error
	)
	switch req.Mode {
	case ModeSearch:
		page, err = src.SearchProducts(ctx, req.Text, req.Params)
	default:
		page, err = src.ListProducts(ctx, req.Params)
	}
	if err != nil {
		out.Err = err
		return out
	}
	out.Result = Result{Items: page.Products, Total: max(page.Total, 0)}
	return out
}

// ErrorMessage turns a load failure into text for the error banner.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			return msg
		}
		return unknownErrorMessage
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return unknownErrorMessage
}
