package api

import (
	"log/slog"
	"net/http"

	"github.com/raunak-choudhary/portfolio-admin/internal/schema"
	"github.com/raunak-choudhary/portfolio-admin/internal/signal"
	"github.com/raunak-choudhary/portfolio-admin/internal/storage"
	"github.com/raunak-choudhary/portfolio-admin/internal/store"
	"github.com/raunak-choudhary/portfolio-admin/pkg/pagination"
	"github.com/raunak-choudhary/portfolio-admin/pkg/routes"
)

// Groups builds the route groups for every registered collection plus the
// messages bulk endpoint.
func Groups(
	st store.Store,
	objects storage.System,
	signals signal.Invalidator,
	logger *slog.Logger,
	paging pagination.Config,
) []routes.Group {
	var groups []routes.Group
	for _, collection := range schema.All() {
		groups = append(groups, NewHandler(collection, st, objects, signals, logger, paging).Routes())
	}
	groups = append(groups, NewBulkHandler(st, signals, logger).Routes())
	return groups
}

// Register attaches every group to the mux.
func Register(mux *http.ServeMux, groups []routes.Group) {
	for _, g := range groups {
		g.Register(mux)
	}
}
