package www

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/angas/junegloom/database"
	"github.com/angas/junegloom/metrics"
	"github.com/gorilla/sessions"
)

const (
	sessionName        = "junegloom"
	sessionWords       = "words"
	maxWordLength      = 40
	maxWordsPerVisitor = 50
)

type WordStore interface {
	GetWords(ctx context.Context) ([]database.WordRow, error)
	AddWord(ctx context.Context, text string) (database.WordRow, error)
}

type wordView struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
	Base  bool   `json:"base"`
	Mine  bool   `json:"mine"`
}

type wordRequest struct {
	Word string `json:"word"`
}

// NewWordsHandler serves the word cloud. The words a visitor added are kept
// in their session and listed first.
func NewWordsHandler(logger *slog.Logger, db WordStore, store sessions.Store, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := store.Get(r, sessionName)
		if err != nil {
			// A cookie signed with an old key, start over with a new session.
			logger.Debug("discarding invalid session", slog.Any("error", err))
		}
		mine := sessionWordKeys(session)

		switch r.Method {
		case http.MethodGet:
			rows, err := db.GetWords(r.Context())
			if err != nil {
				logger.Error("handling words request", slog.Any("error", err))
				writeError(logger, w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(logger, w, http.StatusOK, wordViews(rows, mine))

		case http.MethodPost:
			text, err := readWord(w, r)
			if err != nil {
				writeError(logger, w, http.StatusBadRequest, err.Error())
				return
			}

			row, err := db.AddWord(r.Context(), text)
			if err != nil {
				logger.Error("handling words request", slog.Any("error", err))
				writeError(logger, w, http.StatusInternalServerError, err.Error())
				return
			}
			m.WordsAdded.Inc()

			key := database.WordKey(text)
			if !slices.Contains(mine, key) {
				mine = append(mine, key)
				if len(mine) > maxWordsPerVisitor {
					mine = mine[len(mine)-maxWordsPerVisitor:]
				}
				session.Values[sessionWords] = mine
				if err := session.Save(r, w); err != nil {
					logger.Warn("failed to save session", slog.Any("error", err))
				}
			}

			writeJSON(logger, w, http.StatusCreated, wordView{
				Text:  row.Text,
				Count: row.Count,
				Base:  row.Base,
				Mine:  true,
			})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func sessionWordKeys(s *sessions.Session) []string {
	if s == nil {
		return nil
	}
	keys, _ := s.Values[sessionWords].([]string)
	return keys
}

var (
	errInvalidWordBody = errors.New("invalid json body")
	errEmptyWord       = errors.New("word is empty")
	errLongWord        = errors.New("word is too long")
)

// readWord accepts a JSON body or a form value.
func readWord(w http.ResponseWriter, r *http.Request) (string, error) {
	var text string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req wordRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
			return "", errInvalidWordBody
		}
		text = req.Word
	} else {
		text = r.FormValue("word")
	}

	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return "", errEmptyWord
	case utf8.RuneCountInString(text) > maxWordLength:
		return "", errLongWord
	}
	return text, nil
}

// wordViews puts the visitor's words first, otherwise keeping the order of
// rows.
func wordViews(rows []database.WordRow, mine []string) []wordView {
	views := make([]wordView, len(rows))
	for i, row := range rows {
		views[i] = wordView{
			Text:  row.Text,
			Count: row.Count,
			Base:  row.Base,
			Mine:  slices.Contains(mine, database.WordKey(row.Text)),
		}
	}
	slices.SortStableFunc(views, func(a, b wordView) int {
		switch {
		case a.Mine == b.Mine:
			return 0
		case a.Mine:
			return -1
		default:
			return 1
		}
	})
	return views
}
