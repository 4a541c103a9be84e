package controllers

import (
	"net/http"
	"time"

	"github.com/wafarle/wafarle-backend/api/responses"
	"github.com/wafarle/wafarle-backend/api/validators"
	versionsvc "github.com/wafarle/wafarle-backend/internal/versions"
	"github.com/wafarle/wafarle-backend/pkg/logger"
)

type versionRequest struct {
	Version     string    `json:"version" validate:"required"`
	ReleaseDate time.Time `json:"release_date" validate:"required"`
	IsStable    bool      `json:"is_stable"`
	IsBeta      bool      `json:"is_beta"`
	Breaking    bool      `json:"breaking"`
	Features    []string  `json:"features,omitempty"`
	Bugfixes    []string  `json:"bugfixes,omitempty"`
}

func (v versionRequest) toInput() versionsvc.VersionInput {
	return versionsvc.VersionInput{
		Version:     v.Version,
		ReleaseDate: v.ReleaseDate,
		IsStable:    v.IsStable,
		IsBeta:      v.IsBeta,
		Breaking:    v.Breaking,
		Features:    v.Features,
		Bugfixes:    v.Bugfixes,
	}
}

// ListVersions returns the release history, newest first.
func ListVersions(svc versionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		versions, err := svc.ListVersions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"versions": versions})
	}
}

// LatestVersion returns the release flagged latest.
func LatestVersion(svc versionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version, err := svc.LatestVersion(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, version)
	}
}

// AdminCreateVersion records a new release.
func AdminCreateVersion(svc versionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload versionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		version, err := svc.CreateVersion(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, version)
	}
}

// AdminUpdateVersion replaces the mutable release fields.
func AdminUpdateVersion(svc versionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "versionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload versionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		version, err := svc.UpdateVersion(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, version)
	}
}

// AdminDeleteVersion removes a non-latest release.
func AdminDeleteVersion(svc versionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "versionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteVersion(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminSetLatestVersion promotes one release to latest.
func AdminSetLatestVersion(svc versionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "versionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		version, err := svc.SetLatest(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, version)
	}
}
