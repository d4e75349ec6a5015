// Package admin serves the JSON administration API for questions.
package admin

import (
	"log/slog"
	"net/http"

	"mysite/internal/common/pagination"
	"mysite/internal/handler/http/auth"
	"mysite/internal/handler/http/pathutil"
	authservice "mysite/internal/service/auth"
	questionUC "mysite/internal/usecase/question"
)

// Register mounts the token endpoint and the admin question routes.
// Every admin route requires an admin bearer token.
func Register(mux *http.ServeMux, svc *questionUC.Service, authSvc *authservice.Service, paginationCfg pagination.Config, logger *slog.Logger) {
	authz := auth.Authz(authSvc)
	collection := pathutil.MustLookup(pathutil.RouteAdminQuestions).Pattern

	mux.Handle(pathutil.MustLookup(pathutil.RouteAuthToken).MuxPattern(), auth.TokenHandler(authSvc))

	mux.Handle("GET "+collection, authz(ListHandler{Svc: svc, PaginationCfg: paginationCfg, Logger: logger}))
	mux.Handle("POST "+collection, authz(CreateHandler{Svc: svc, Logger: logger}))
	mux.Handle(pathutil.MustLookup(pathutil.RouteAdminQuestion).MuxPattern(), authz(DeleteHandler{Svc: svc, Logger: logger}))
}
