package database

import (
	"context"
	"fmt"
	"strings"
)

type WordRow struct {
	Text  string
	Count int
	Base  bool
}

func WordKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// GetWords lists the word cloud, most mentioned first.
func (d *Database) GetWords(ctx context.Context) ([]WordRow, error) {
	rows, err := d.read.QueryContext(ctx, `
		SELECT text, count, base
		FROM word
		ORDER BY count DESC, word_key`)
	if err != nil {
		return nil, fmt.Errorf("fetching words: %w", err)
	}
	defer rows.Close()

	var words []WordRow
	for rows.Next() {
		var w WordRow
		if err := rows.Scan(&w.Text, &w.Count, &w.Base); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading word rows: %w", err)
	}
	return words, nil
}

// AddWord counts one mention of text. Words are matched case-insensitively
// and keep the spelling they were first added with.
func (d *Database) AddWord(ctx context.Context, text string) (WordRow, error) {
	text = strings.TrimSpace(text)
	var w WordRow
	err := d.write.QueryRowContext(ctx, `
		INSERT INTO word (word_key, text, count, base, updated_at)
		VALUES (?, ?, 1, 0, ?)
		ON CONFLICT (word_key) DO UPDATE SET
			count = count + 1,
			updated_at = excluded.updated_at
		RETURNING text, count, base`,
		WordKey(text), text, d.clock.Now().UTC().Format(timestampLayout)).Scan(&w.Text, &w.Count, &w.Base)
	if err != nil {
		return WordRow{}, fmt.Errorf("adding word %q: %w", text, err)
	}
	return w, nil
}
