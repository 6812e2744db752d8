package ui

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

// lineReader possède l'entrée standard : une seule goroutine lit les lignes
// pour toute la durée du programme et les publie sur un canal.
// Les prompts attendent sur ce canal, ce qui permet un select avec un timer
// ou ctx.Done() sans abandonner de goroutine bloquée sur une lecture.
type lineReader struct {
	src   io.Reader
	lines chan string
	once  sync.Once
	err   error // écrit avant close(lines)
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{src: r, lines: make(chan string)}
}

func (l *lineReader) start() {
	l.once.Do(func() {
		go l.loop()
	})
}

func (l *lineReader) loop() {
	br := bufio.NewReader(l.src)
	for {
		s, err := br.ReadString('\n')
		if s != "" {
			l.lines <- strings.TrimRight(s, "\r\n")
		}
		if err != nil {
			l.err = err
			close(l.lines)
			return
		}
	}
}

// ReadLine attend la prochaine ligne. deadline peut être nil (pas d'échéance).
// Retourne io.EOF (ou l'erreur de lecture) quand l'entrée est fermée,
// ctx.Err() si ctx est annulé, errTimeout si deadline se déclenche.
func (l *lineReader) ReadLine(ctx context.Context, deadline <-chan time.Time) (string, error) {
	l.start()
	select {
	case s, ok := <-l.lines:
		if !ok {
			return "", l.err
		}
		return s, nil
	case <-deadline:
		return "", errTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// discardPending jette les lignes déjà tapées (ex : Entrée pendant le téléchargement).
func (l *lineReader) discardPending() {
	l.start()
	for {
		select {
		case _, ok := <-l.lines:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
