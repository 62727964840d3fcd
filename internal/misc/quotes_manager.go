package misc

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

//go:embed quotes.csv
var defaultQuotesCsv []byte

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// QuotesManager serves motivational quotes, read once and never modified.
type QuotesManager struct {
	quotes  []*Quote
	byGenre map[string][]*Quote
}

// NewDefaultQuotesManager loads the quotes bundled with the binary.
func NewDefaultQuotesManager() (*QuotesManager, error) {
	return NewQuotesManager(bytes.NewReader(defaultQuotesCsv))
}

// NewQuotesManager reads "text;author;genre" lines. Lines starting with # are skipped.
func NewQuotesManager(quotesCsv io.Reader) (*QuotesManager, error) {
	reader := csv.NewReader(quotesCsv)
	reader.Comma = ';'
	reader.Comment = '#'
	reader.FieldsPerRecord = 3
	reader.LazyQuotes = true

	qm := &QuotesManager{byGenre: make(map[string][]*Quote)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read quotes: %w", err)
		}

		quote := &Quote{
			Text:   strings.TrimSpace(record[0]),
			Author: strings.TrimSpace(record[1]),
			Genre:  strings.ToLower(strings.TrimSpace(record[2])),
		}
		if quote.Text == "" {
			continue
		}
		if quote.Author == "" {
			quote.Author = "Unknown"
		}
		qm.quotes = append(qm.quotes, quote)
		qm.byGenre[quote.Genre] = append(qm.byGenre[quote.Genre], quote)
	}

	if len(qm.quotes) == 0 {
		return nil, errors.New("no quotes found")
	}
	log.Debugf("quotes manager: %d quotes, %d genres", len(qm.quotes), len(qm.byGenre))
	return qm, nil
}

func (qm *QuotesManager) Len() int {
	return len(qm.quotes)
}

// Genre returns the quotes of one genre, nil if there are none.
func (qm *QuotesManager) Genre(genre string) []*Quote {
	return qm.byGenre[strings.ToLower(genre)]
}

func (qm *QuotesManager) RandomQuote() *Quote {
	return qm.quotes[rand.IntN(len(qm.quotes))]
}

// DailyQuote picks the same quote for the whole calendar day of now.
func (qm *QuotesManager) DailyQuote(now time.Time) *Quote {
	return qm.quotes[now.YearDay()%len(qm.quotes)]
}
