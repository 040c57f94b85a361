package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/geoquiz/internal/geo"
	"github.com/abhisek/geoquiz/internal/quiz"
)

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.opts.Quizzes.List(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	if quizzes == nil {
		quizzes = []*quiz.Quiz{}
	}
	JSON(w, http.StatusOK, quizzes)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := s.opts.Quizzes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, q)
}

func (s *Server) handleDatasetGeoJSON(w http.ResponseWriter, r *http.Request) {
	ds, err := s.opts.Datasets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, ds.GeoJSON)
}

// regionsResponse is the dataset region list with its property keys.
type regionsResponse struct {
	DatasetID string       `json:"datasetId"`
	IDKey     string       `json:"idKey"`
	LabelKey  string       `json:"labelKey"`
	Regions   []geo.Region `json:"regions"`
}

func (s *Server) handleDatasetRegions(w http.ResponseWriter, r *http.Request) {
	ds, err := s.opts.Datasets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	regions := geo.ExtractRegions(ds, s.opts.Loader.Locale())
	if regions == nil {
		regions = []geo.Region{}
	}
	JSON(w, http.StatusOK, regionsResponse{
		DatasetID: ds.ID,
		IDKey:     ds.IDKey,
		LabelKey:  ds.LabelKey,
		Regions:   regions,
	})
}
