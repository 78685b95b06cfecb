// Package server exposes a fitted ideology classifier as a small web
// predictor: one two-valued selector per retained issue area in, a
// predicted probability out.
package server

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/scotuslab/leanings/pkg/logit"
	"github.com/scotuslab/leanings/pkg/scdb"
	"github.com/scotuslab/leanings/pkg/store"
	"go.uber.org/zap"
)

//go:embed form.html
var formHTML string

const recentLimit = 50

// Server serves the prediction form and API over an immutable fitted model.
// Every request is stateless with respect to the others.
type Server struct {
	model  *logit.Model
	areas  []scdb.IssueArea
	slugs  map[string]bool
	runID  string
	log    *store.Store
	logger *zap.Logger
	form   *template.Template
	mux    *http.ServeMux
}

type areaOption struct {
	Slug string
	Name string
}

// New builds a Server over a fitted model. The model's coefficients must be
// ordered as areas is. The prediction log may be nil to disable recording.
func New(model *logit.Model, areas []scdb.IssueArea, runID string, log *store.Store, logger *zap.Logger) (*Server, error) {
	if len(model.Coefficients) != len(areas) {
		return nil, fmt.Errorf("model has %d coefficients for %d areas",
			len(model.Coefficients), len(areas))
	}

	form, err := template.New("form").Parse(formHTML)
	if err != nil {
		return nil, fmt.Errorf("parsing prediction form template: %w", err)
	}

	slugs := make(map[string]bool, len(areas))
	for _, area := range areas {
		slugs[area.Slug()] = true
	}

	server := &Server{
		model:  model,
		areas:  areas,
		slugs:  slugs,
		runID:  runID,
		log:    log,
		logger: logger,
		form:   form,
		mux:    http.NewServeMux(),
	}
	server.mux.HandleFunc("/", server.handleForm)
	server.mux.HandleFunc("/api/predict", server.handlePredict)
	server.mux.HandleFunc("/api/predictions", server.handleRecent)
	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	options := make([]areaOption, len(s.areas))
	for i, area := range s.areas {
		options[i] = areaOption{Slug: area.Slug(), Name: area.String()}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.form.Execute(w, options); err != nil {
		s.logger.Error("rendering prediction form", zap.Error(err))
	}
}

// PredictRequest maps issue-area slugs to "conservative", "liberal", or ""
// for areas left unselected.
type PredictRequest struct {
	Areas map[string]string `json:"areas"`
}

// PredictResponse carries the predicted probability of a conservative
// leaning.
type PredictResponse struct {
	Probability float64 `json:"probability"`
	Leaning     string  `json:"leaning"`
	RunID       string  `json:"run_id"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST allowed", http.StatusMethodNotAllowed)
		return
	}

	var request PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	features := make([]float64, len(s.areas))
	for i, area := range s.areas {
		choice := request.Areas[area.Slug()]
		switch choice {
		case "":
			// Unselected areas carry the same sentinel as absent cells
			// in the training matrix.
		case scdb.Conservative.String():
			features[i] = float64(scdb.Conservative.Code())
		case scdb.Liberal.String():
			features[i] = float64(scdb.Liberal.Code())
		default:
			http.Error(w, fmt.Sprintf("unknown direction %q for %s", choice, area.Slug()),
				http.StatusBadRequest)
			return
		}
	}
	for slug := range request.Areas {
		if !s.slugs[slug] {
			http.Error(w, fmt.Sprintf("issue area %q is not served by this model", slug),
				http.StatusBadRequest)
			return
		}
	}

	probability := s.model.Probability(features)
	leaning := scdb.Liberal.String()
	if probability > logit.ClassifyThreshold {
		leaning = scdb.Conservative.String()
	}

	response := PredictResponse{
		Probability: probability,
		Leaning:     leaning,
		RunID:       s.runID,
	}

	if s.log != nil {
		inputs, err := json.Marshal(request.Areas)
		if err == nil {
			err = s.log.Record(r.Context(), store.Prediction{
				RunID:       s.runID,
				Inputs:      string(inputs),
				Probability: probability,
				Leaning:     leaning,
			})
		}
		if err != nil {
			s.logger.Warn("recording prediction", zap.Error(err))
		}
	}

	s.logger.Info("served prediction",
		zap.Float64("probability", probability),
		zap.String("leaning", leaning))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("encoding prediction response", zap.Error(err))
	}
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Only GET allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.log == nil {
		http.Error(w, "prediction log disabled", http.StatusNotFound)
		return
	}

	predictions, err := s.log.Recent(r.Context(), recentLimit)
	if err != nil {
		s.logger.Error("listing predictions", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(predictions); err != nil {
		s.logger.Error("encoding predictions", zap.Error(err))
	}
}
