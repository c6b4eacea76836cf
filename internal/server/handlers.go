package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/seqtree/pkg/collapse"
	errs "github.com/matzehuels/seqtree/pkg/errors"
	seqio "github.com/matzehuels/seqtree/pkg/io"
	"github.com/matzehuels/seqtree/pkg/pipeline"
	"github.com/matzehuels/seqtree/pkg/scene"
	"github.com/matzehuels/seqtree/pkg/tree"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
}

// RowsResponse is the body of GET /rows.
type RowsResponse struct {
	Revision uint64         `json:"revision"`
	Total    int            `json:"total"`
	Rows     []seqio.RowDoc `json:"rows"`
}

// CollapseRequest is the body of POST /collapse. A missing Collapsed
// toggles the current flag.
type CollapseRequest struct {
	Object    string   `json:"object"`
	Path      []string `json:"path,omitempty"`
	Collapsed *bool    `json:"collapsed,omitempty"`
}

// CollapseResponse is the body returned by the collapse routes.
type CollapseResponse struct {
	Key       string `json:"key,omitempty"`
	Collapsed bool   `json:"collapsed"`
	Revision  uint64 `json:"revision"`
}

type errorResponse struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	opts := s.cfg.Options
	opts.Formats = []string{format}
	opts.Plain = true

	res, err := s.cfg.Runner.Execute(r.Context(), s.cfg.Sheet, s.cfg.Store.Snapshot(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("ETag", strconv.Quote(res.TreeHash))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	from, err := intParam(r, "from", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := intParam(r, "to", -1)
	if err != nil {
		writeError(w, err)
		return
	}

	snap := s.cfg.Store.Snapshot()
	root, err := s.cfg.Runner.Layout(r.Context(), s.cfg.Sheet, snap, s.cfg.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	rows := tree.Flatten(root)
	resp := RowsResponse{Revision: snap.Revision(), Total: len(rows), Rows: []seqio.RowDoc{}}
	if to < 0 || to > len(rows) {
		to = len(rows)
	}
	for i := from; i < to; i++ {
		resp.Rows = append(resp.Rows, seqio.NewRowDoc(rows[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCollapse(w http.ResponseWriter, r *http.Request) {
	var req CollapseRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	key, err := collapse.KeyFor(s.cfg.Sheet, req.Object, scene.Path(req.Path))
	if err != nil {
		writeError(w, err)
		return
	}

	var collapsed bool
	if req.Collapsed == nil {
		collapsed = s.cfg.Store.Toggle(key)
	} else {
		collapsed = *req.Collapsed
		s.cfg.Store.Set(key, collapsed)
	}
	if err := s.persist(); err != nil {
		writeError(w, err)
		return
	}

	s.cfg.Logger.Debug("collapse", "object", req.Object, "path", scene.Path(req.Path).String(), "collapsed", collapsed)
	writeJSON(w, http.StatusOK, CollapseResponse{
		Key:       string(key),
		Collapsed: collapsed,
		Revision:  s.cfg.Store.Revision(),
	})
}

func (s *Server) handleExpandAll(w http.ResponseWriter, r *http.Request) {
	s.cfg.Store.Replace(collapse.SnapshotOf(nil))
	if err := s.persist(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CollapseResponse{Revision: s.cfg.Store.Revision()})
}

func (s *Server) persist() error {
	if s.cfg.Persist == nil {
		return nil
	}
	return s.cfg.Persist.Save(s.cfg.Store)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errs.New(errs.ErrCodeInvalidInput, "%s must be a non-negative integer, got %q", name, v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	writeJSON(w, statusFor(code), errorResponse{Error: errs.UserMessage(err), Code: code})
}

func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidPath, errs.ErrCodeInvalidKey:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeSchemaDesync:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
