package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
	"github.com/dhebbeker/doxygen/pkg/dotdir"
	derrors "github.com/dhebbeker/doxygen/pkg/errors"
	"github.com/dhebbeker/doxygen/pkg/pipeline"
	"github.com/dhebbeker/doxygen/pkg/render"
)

// =============================================================================
// Response types
// =============================================================================

// DirSummary describes one directory in listings.
type DirSummary struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Level    int    `json:"level"`
	Cluster  bool   `json:"cluster"`
	Trivial  bool   `json:"trivial"`
	Files    int    `json:"files"`
	UsedDirs int    `json:"used_dirs"`
}

// DirDetail is the response of GET /dirs/{id}.
type DirDetail struct {
	DirSummary
	Parent   string      `json:"parent,omitempty"`
	Children []string    `json:"children"`
	FileList []string    `json:"file_list"`
	Uses     []UsedEntry `json:"uses"`
}

// UsedEntry is one dependee of a directory.
type UsedEntry struct {
	Path      string `json:"path"`
	FilePairs int    `json:"file_pairs"`
	Direct    bool   `json:"direct"`
}

// RelationSummary describes one relation in listings.
type RelationSummary struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Files       int    `json:"files"`
}

// RelationDetail is the response of GET /relations/{name}.
type RelationDetail struct {
	RelationSummary
	Pairs []PairEntry `json:"pairs"`
}

// PairEntry is one include between two files of a relation.
type PairEntry struct {
	Source               string `json:"source"`
	Destination          string `json:"destination"`
	InheritedByDependent bool   `json:"inherited_by_dependent,omitempty"`
	InheritedByDependee  bool   `json:"inherited_by_dependee,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDirs(w http.ResponseWriter, r *http.Request) {
	dirs := s.Project().Tree.Dirs()
	out := make([]DirSummary, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, summarizeDir(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDir(w http.ResponseWriter, r *http.Request) {
	d, err := s.Project().Dir(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	detail := DirDetail{
		DirSummary: summarizeDir(d),
		Children:   make([]string, 0, len(d.Children())),
		FileList:   make([]string, 0, len(d.Files())),
		Uses:       make([]UsedEntry, 0, len(d.UsedDirs())),
	}
	if p := d.Parent(); p != nil {
		detail.Parent = p.Path()
	}
	for _, c := range d.Children() {
		detail.Children = append(detail.Children, c.Path())
	}
	for _, f := range d.Files() {
		detail.FileList = append(detail.FileList, f.Path)
	}
	for _, u := range d.UsedDirs() {
		detail.Uses = append(detail.Uses, UsedEntry{
			Path:      u.Dir().Path(),
			FilePairs: len(u.FilePairs()),
			Direct:    u.HasDirectDeps(),
		})
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	p := s.Project()
	d, err := p.Dir(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := chi.URLParam(r, "format")

	opts := pipeline.Options{Graph: s.opts, Formats: []string{format}}
	q := r.URL.Query()
	if opts.Graph.MaxSuccessor, err = intParam(q.Get("successor"), opts.Graph.MaxSuccessor); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Graph.MaxAncestor, err = intParam(q.Get("ancestor"), opts.Graph.MaxAncestor); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Refresh = q.Get("refresh") == "1" || q.Get("refresh") == "true"

	res, err := s.runner.Execute(r.Context(), p, d, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if format != render.FormatDOT {
		if res.CacheInfo.RenderHit {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	rels := s.Project().Relations.All()
	out := make([]RelationSummary, 0, len(rels))
	for _, rel := range rels {
		out = append(out, summarizeRelation(rel))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRelation(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rel, ok := s.Project().Relations.Lookup(name)
	if !ok {
		s.writeError(w, r, derrors.New(derrors.ErrCodeRelationNotFound, "no relation %q", name))
		return
	}

	pairs := rel.Destination.FilePairs()
	detail := RelationDetail{
		RelationSummary: summarizeRelation(rel),
		Pairs:           make([]PairEntry, 0, len(pairs)),
	}
	for _, p := range pairs {
		detail.Pairs = append(detail.Pairs, PairEntry{
			Source:               p.Source.Path,
			Destination:          p.Destination.Path,
			InheritedByDependent: p.InheritedByDependent,
			InheritedByDependee:  p.InheritedByDependee,
		})
	}
	writeJSON(w, http.StatusOK, detail)
}

// =============================================================================
// Helpers
// =============================================================================

func summarizeDir(d *dirtree.Dir) DirSummary {
	return DirSummary{
		ID:       d.ID(),
		Path:     d.Path(),
		Level:    d.Level(),
		Cluster:  d.IsCluster(),
		Trivial:  dotdir.IsTrivial(d),
		Files:    len(d.Files()),
		UsedDirs: len(d.UsedDirs()),
	}
}

func summarizeRelation(rel *dotdir.Relation) RelationSummary {
	return RelationSummary{
		Name:        rel.Name,
		Source:      rel.Source.Path(),
		Destination: rel.Destination.Dir().Path(),
		Files:       rel.FileCount(),
	}
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, derrors.Wrap(derrors.ErrCodeInvalidInput, err, "invalid integer %q", raw)
	}
	return n, nil
}

// statusCode maps an error to its HTTP status.
func statusCode(err error) int {
	if derrors.IsNotFound(err) {
		return http.StatusNotFound
	}
	switch derrors.GetCode(err) {
	case derrors.ErrCodeInvalidInput, derrors.ErrCodeInvalidFormat, derrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case derrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error: derrors.UserMessage(err),
		Code:  string(derrors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
