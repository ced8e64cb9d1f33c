package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bizlink/leadgen-backend/api/middleware"
	"github.com/bizlink/leadgen-backend/internal/access"
	pkgerrors "github.com/bizlink/leadgen-backend/pkg/errors"
)

func actorFromRequest(r *http.Request) (access.Actor, error) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == nil {
		return access.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return *actor, nil
}

func parseFormUUID(r *http.Request, field string) (uuid.UUID, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return id, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}
