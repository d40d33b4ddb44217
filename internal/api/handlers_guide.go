package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dgallion1/bidguide/internal/export"
	"github.com/dgallion1/bidguide/internal/wizard"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// handleGuide downloads the finished guide as markdown (default), html
// or docx, or as a json outline, selected by ?format=.
func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	done, ok := sess.Engine.State().(wizard.Done)
	if !ok {
		jsonError(w, "guide is not ready", http.StatusConflict)
		return
	}

	filename, _ := sess.Document()
	base := guideBaseName(filename)

	switch format := r.URL.Query().Get("format"); format {
	case "", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", attachment(base+".md"))
		w.Write([]byte(done.Guide))
	case "html":
		page, err := export.HTMLPage(base, done.Guide)
		if err != nil {
			s.log.Error("render guide html", "session_id", sess.ID, "error", err)
			jsonError(w, "failed to render guide", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	case "docx":
		var buf bytes.Buffer
		if err := export.DOCX(&buf, base, done.Guide); err != nil {
			s.log.Error("render guide docx", "session_id", sess.ID, "error", err)
			jsonError(w, "failed to render guide", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", docxContentType)
		w.Header().Set("Content-Disposition", attachment(base+".docx"))
		w.Write(buf.Bytes())
	case "json":
		writeJSON(w, http.StatusOK, map[string]any{
			"filename": filename,
			"markdown": done.Guide,
			"sections": export.Outline(done.Guide),
		})
	default:
		jsonError(w, fmt.Sprintf("unsupported format: %s", format), http.StatusBadRequest)
	}
}

func guideBaseName(filename string) string {
	name := strings.TrimSuffix(filename, ".pdf")
	name = strings.TrimSuffix(name, ".PDF")
	if name == "" {
		return "기획가이드"
	}
	return name + "_기획가이드"
}

func attachment(name string) string {
	return fmt.Sprintf(`attachment; filename="guide"; filename*=UTF-8''%s`, url.PathEscape(name))
}
