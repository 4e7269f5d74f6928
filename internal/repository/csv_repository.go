package repository

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/kasi-noc/incident-tickets/internal/domain"
	"github.com/kasi-noc/incident-tickets/pkg/csvtable"
)

type csvTicketTable struct {
	path string
}

// NewCSVTicketTable stores tickets in a comma-separated file at path.
// Full rewrites go through a temp file and rename so a crash never leaves a
// truncated table behind.
func NewCSVTicketTable(path string) TicketTable {
	return &csvTicketTable{path: path}
}

func (r *csvTicketTable) LoadAll(_ context.Context) ([]domain.Ticket, error) {
	tbl, err := readTable(r.path)
	if err != nil {
		return nil, err
	}
	return ticketsFromTable(tbl), nil
}

func (r *csvTicketTable) SaveAll(_ context.Context, tickets []domain.Ticket) error {
	text := csvtable.Encode(ticketsToTable(tickets))
	if err := atomic.WriteFile(r.path, strings.NewReader(text)); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}

func (r *csvTicketTable) Append(_ context.Context, ticket domain.Ticket) error {
	return appendRow(r.path, domain.TicketColumns, ticket.Record())
}

func (r *csvTicketTable) Export(_ context.Context) ([]byte, error) {
	content, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return exportTickets(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	return content, nil
}

type csvHistoryRepository struct {
	path string
}

// NewCSVHistoryRepository appends history entries to a comma-separated file.
func NewCSVHistoryRepository(path string) TicketHistoryRepository {
	return &csvHistoryRepository{path: path}
}

func (r *csvHistoryRepository) Append(_ context.Context, entry domain.TicketHistory) error {
	return appendRow(r.path, domain.HistoryColumns, entry.Record())
}

func (r *csvHistoryRepository) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	tbl, err := readTable(r.path)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.TicketHistory, 0, len(tbl.Records))
	for _, rec := range tbl.Records {
		entries = append(entries, domain.TicketHistoryFromRecord(rec))
	}
	return filterHistory(entries, ticketID), nil
}

func readTable(path string) (csvtable.Table, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return csvtable.Table{}, nil
	}
	if err != nil {
		return csvtable.Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	return csvtable.Decode(string(content)), nil
}

// appendRow writes one encoded row at the end of the file, creating the file
// with its header first when it is missing or empty. Rows follow the column
// order of the header already on disk.
func appendRow(path string, header []string, rec csvtable.Record) (err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	var b strings.Builder
	if info.Size() == 0 {
		b.WriteString(csvtable.EncodeHeader(header))
		b.WriteByte('\n')
	} else {
		line, err := bufio.NewReader(io.NewSectionReader(f, 0, info.Size())).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if existing := csvtable.DecodeHeader(line); len(existing) > 0 {
			header = existing
		}
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, info.Size()-1); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if last[0] != '\n' {
			b.WriteByte('\n')
		}
	}
	b.WriteString(csvtable.EncodeRow(header, rec))
	b.WriteByte('\n')

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	return nil
}
