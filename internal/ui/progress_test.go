package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"attrlex/internal/driver"
)

func newTestModel(files ...string) *progressModel {
	return NewProgressModel("tokenize", files, nil).(*progressModel)
}

func TestProgressCountsStatuses(t *testing.T) {
	m := newTestModel("a.php", "b.php", "c.php", "d.php")

	for _, ev := range []driver.Event{
		{File: "a.php", Status: driver.StatusQueued},
		{File: "a.php", Status: driver.StatusDone, Elapsed: 3 * time.Millisecond},
		{File: "b.php", Status: driver.StatusCached},
		{File: "c.php", Status: driver.StatusError, Err: errors.New("boom")},
		{File: "d.php", Status: driver.StatusWorking},
		{File: "unknown.php", Status: driver.StatusDone},
	} {
		m.Update(eventMsg(ev))
	}

	finished, failed, cached := m.counts()
	if finished != 3 || failed != 1 || cached != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/1/1", finished, failed, cached)
	}

	view := m.View()
	for _, want := range []string{"tokenize 3/4, 1 cached, 1 with errors", "a.php (3ms)", "working", "c.php"} {
		if !strings.Contains(view, want) {
			t.Errorf("view must contain %q:\n%s", want, view)
		}
	}
}

func TestProgressDoneQuits(t *testing.T) {
	m := newTestModel("a.php")
	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatal("doneMsg must finish the model with a quit command")
	}
	if !strings.Contains(m.View(), "done: tokenize 0/1") {
		t.Errorf("unexpected final view:\n%s", m.View())
	}
}

func TestProgressShowsRecentFilesOnly(t *testing.T) {
	files := make([]string, maxVisible+5)
	for i := range files {
		files[i] = fmt.Sprintf("f%02d.php", i)
	}
	m := newTestModel(files...)
	for _, f := range files {
		m.Update(eventMsg(driver.Event{File: f, Status: driver.StatusDone}))
	}
	// повторное обновление поднимает файл наверх списка недавних
	m.Update(eventMsg(driver.Event{File: "f00.php", Status: driver.StatusError}))

	vis := m.visible()
	if len(vis) != maxVisible {
		t.Fatalf("visible = %d, want %d", len(vis), maxVisible)
	}
	if last := m.items[vis[len(vis)-1]].path; last != "f00.php" {
		t.Errorf("most recent = %q, want f00.php", last)
	}
	if strings.Contains(m.View(), "f01.php") {
		t.Error("old entries must scroll out of view")
	}
}

func TestChannelEventsEndWithDone(t *testing.T) {
	ch := make(chan driver.Event, 1)
	m := NewProgressModel("t", []string{"a.php"}, ch).(*progressModel)
	ch <- driver.Event{File: "a.php", Status: driver.StatusDone}
	close(ch)

	listen := m.listenForEvent()
	if _, ok := listen().(eventMsg); !ok {
		t.Fatal("first message must be an event")
	}
	if _, ok := listen().(doneMsg); !ok {
		t.Fatal("closed channel must yield doneMsg")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.php", 20, "short.php"},
		{"src/Controller/UserController.php", 20, "...serController.php"},
		{"abcdef", 3, "abc"},
		{"any", 0, "any"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
