package bulk

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"codeberg.org/tolvu/cardbox/internal/llm"
	"codeberg.org/tolvu/cardbox/internal/ocr"
	"codeberg.org/tolvu/cardbox/internal/scan"
	"codeberg.org/tolvu/cardbox/internal/store"
)

// CardStore is the slice of the persistence facade the pipeline needs to
// accept an item.
type CardStore interface {
	AddCard(question, answer string, collectionID int64, hint string, subCollectionID *int64) (store.Card, error)
}

// Config holds the collaborators and policy of a bulk-create session.
type Config struct {
	OCR          ocr.Provider
	Generator    llm.Generator
	Store        CardStore
	Host         llm.HostKind
	AutoRun      bool          // start generation automatically for idle items
	PollInterval time.Duration // 0 disables directory polling
}

// Callbacks notify the review surface about queue changes. They are invoked
// from background goroutines; UI code must republish via fyne.Do.
type Callbacks struct {
	OnItemAdded    func(item Item, index int)
	OnItemUpdated  func(item Item, index int)
	OnQueueChanged func()
}

// Session owns the ordered queue of discovered files for one bulk-create
// run. Items enter as their OCR resolves, optionally run through the card
// generator, and leave when the user accepts or skips them.
type Session struct {
	cfg       Config
	callbacks Callbacks

	mu      sync.Mutex
	items   []*Item
	current int
	known   map[string]bool // paths ever queued this run
	started map[string]bool // paths handed to the generator this run
	active  bool
	autoRun bool
	epoch   int // bumped on start/stop so late results are discarded
	runSeq  int

	ctx     context.Context
	cancel  context.CancelFunc
	watcher *scan.Watcher
	wg      sync.WaitGroup
}

type itemUpdate struct {
	item  Item
	index int
}

// NewSession creates a session; nothing runs until Start.
func NewSession(cfg Config, callbacks Callbacks) *Session {
	return &Session{
		cfg:       cfg,
		callbacks: callbacks,
		autoRun:   cfg.AutoRun,
		known:     make(map[string]bool),
		started:   make(map[string]bool),
	}
}

// Active reports whether a bulk-create run is in progress. While active,
// navigation to other screens is gated off.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Start lists the directory and begins OCR-processing each file in listing
// order, appending items incrementally. When polling is configured, files
// appearing later are picked up the same way.
func (s *Session) Start(directory, format string) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return fmt.Errorf("a bulk session is already running")
	}
	s.active = true
	s.epoch++
	epoch := s.epoch
	s.items = nil
	s.current = 0
	s.known = make(map[string]bool)
	s.started = make(map[string]bool)
	ctx, cancel := context.WithCancel(context.Background())
	s.ctx, s.cancel = ctx, cancel
	s.mu.Unlock()

	paths, err := scan.ListFiles(directory, format)
	if err != nil {
		s.Stop()
		return err
	}

	if s.cfg.PollInterval > 0 {
		w := scan.NewWatcher(ctx, directory, format, s.cfg.PollInterval)
		w.MarkKnown(paths)
		s.mu.Lock()
		s.watcher = w
		s.mu.Unlock()
		go w.Run(func(fresh []string) {
			s.ingest(epoch, fresh)
		})
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.ingest(epoch, paths)
	}()

	return nil
}

// PollNow re-lists the directory once and processes any unseen files.
// Mostly useful when polling is configured with a long interval.
func (s *Session) PollNow() error {
	s.mu.Lock()
	w := s.watcher
	epoch := s.epoch
	active := s.active
	s.mu.Unlock()

	if !active || w == nil {
		return fmt.Errorf("no active session")
	}

	fresh, err := w.Poll()
	if err != nil {
		return err
	}
	s.ingest(epoch, fresh)
	return nil
}

// ingest OCR-processes paths strictly one after another, appending an item
// per path as its OCR resolves. OCR failures degrade to empty text so the
// user can type the content by hand.
func (s *Session) ingest(epoch int, paths []string) {
	for _, path := range paths {
		s.mu.Lock()
		if s.epoch != epoch || !s.active || s.known[path] {
			s.mu.Unlock()
			continue
		}
		s.known[path] = true
		ctx := s.ctx
		s.mu.Unlock()

		text, err := s.cfg.OCR.Recognize(ctx, path)
		if err != nil {
			text = ""
		}

		s.mu.Lock()
		if s.epoch != epoch || !s.active {
			s.mu.Unlock()
			return
		}
		item := &Item{Path: path, Text: strings.TrimSpace(text), LLMStatus: StatusIdle}
		s.items = append(s.items, item)
		index := len(s.items) - 1
		added := *item
		updates := s.maybeAutoRunLocked()
		s.mu.Unlock()

		if s.callbacks.OnItemAdded != nil {
			s.callbacks.OnItemAdded(added, index)
		}
		s.notify(updates)
	}
}

func (s *Session) notify(updates []itemUpdate) {
	if s.callbacks.OnItemUpdated == nil {
		return
	}
	for _, u := range updates {
		s.callbacks.OnItemUpdated(u.item, u.index)
	}
}

// SetAutoRun enables or disables automatic generation for idle items.
func (s *Session) SetAutoRun(enabled bool) {
	s.mu.Lock()
	s.autoRun = enabled
	var updates []itemUpdate
	if enabled {
		updates = s.maybeAutoRunLocked()
	}
	s.mu.Unlock()
	s.notify(updates)
}

// maybeAutoRunLocked starts generation for eligible idle items, bounded by
// the host's concurrency policy. For local hosts only one run may be in
// flight; for cloud hosts the current item and its immediate successor may
// overlap. The started set keeps overlapping triggers from starting the
// same item twice.
func (s *Session) maybeAutoRunLocked() []itemUpdate {
	if !s.autoRun || !s.active || len(s.items) == 0 {
		return nil
	}

	max := llm.MaxConcurrentRuns(s.cfg.Host)
	running := 0
	for _, it := range s.items {
		if it.LLMStatus == StatusRunning {
			running++
		}
	}
	if running >= max {
		return nil
	}

	candidates := s.items[s.current:]
	if s.cfg.Host == llm.HostCloud {
		end := s.current + max
		if end > len(s.items) {
			end = len(s.items)
		}
		candidates = s.items[s.current:end]
	}

	var updates []itemUpdate
	for i, it := range candidates {
		if running >= max {
			break
		}
		if it.LLMStatus != StatusIdle || strings.TrimSpace(it.Text) == "" || s.started[it.Path] {
			continue
		}
		updates = append(updates, itemUpdate{s.startRunLocked(it), s.current + i})
		running++
	}
	return updates
}

// startRunLocked marks an item running and launches its generation
// goroutine. Returns a snapshot for notification.
func (s *Session) startRunLocked(item *Item) Item {
	s.started[item.Path] = true
	s.runSeq++
	item.LLMStatus = StatusRunning
	item.runSeq = s.runSeq

	s.wg.Add(1)
	go s.runLLM(item.Path, item.Text, s.epoch, s.runSeq)

	return *item
}

// RunItem manually triggers generation for the item at path.
func (s *Session) RunItem(path string) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return fmt.Errorf("no active session")
	}
	index := s.indexOfLocked(path)
	if index < 0 {
		s.mu.Unlock()
		return fmt.Errorf("unknown queue item: %s", path)
	}
	item := s.items[index]
	if item.LLMStatus == StatusRunning {
		s.mu.Unlock()
		return fmt.Errorf("generation already running for this item")
	}
	if strings.TrimSpace(item.Text) == "" {
		s.mu.Unlock()
		return fmt.Errorf("no text to generate from")
	}
	if item.LLMStatus != StatusIdle {
		s.resetLocked(item)
	}
	snapshot := s.startRunLocked(item)
	s.mu.Unlock()

	s.notify([]itemUpdate{{snapshot, index}})
	return nil
}

// runLLM performs one generation call and records the outcome. Results are
// discarded when the session was stopped or the item was reset or removed
// in the meantime.
func (s *Session) runLLM(path, text string, epoch, seq int) {
	defer s.wg.Done()

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	card, err := s.cfg.Generator.GenerateCard(ctx, text)

	s.mu.Lock()
	if s.epoch != epoch || !s.active {
		s.mu.Unlock()
		return
	}
	index := s.indexOfLocked(path)
	if index < 0 {
		s.mu.Unlock()
		return
	}
	item := s.items[index]
	if item.runSeq != seq || item.LLMStatus != StatusRunning {
		// Reset or restarted while this call was in flight.
		s.mu.Unlock()
		return
	}

	if err != nil {
		item.LLMStatus = StatusError
		item.LLMError = err.Error()
	} else {
		item.LLMStatus = StatusDone
		item.LLMResponse = card.Raw
		item.LLMQuestion = card.Question
		item.LLMAnswer = card.Answer
		item.LLMError = ""
	}
	snapshot := *item
	updates := s.maybeAutoRunLocked()
	s.mu.Unlock()

	s.notify(append([]itemUpdate{{snapshot, index}}, updates...))
}

// ResetLLM forces an item back to idle, clearing any cached generation
// output so it may be run again.
func (s *Session) ResetLLM(path string) error {
	s.mu.Lock()
	index := s.indexOfLocked(path)
	if index < 0 {
		s.mu.Unlock()
		return fmt.Errorf("unknown queue item: %s", path)
	}
	item := s.items[index]
	s.resetLocked(item)
	snapshot := *item
	updates := s.maybeAutoRunLocked()
	s.mu.Unlock()

	s.notify(append([]itemUpdate{{snapshot, index}}, updates...))
	return nil
}

func (s *Session) resetLocked(item *Item) {
	item.LLMStatus = StatusIdle
	item.LLMResponse = ""
	item.LLMQuestion = ""
	item.LLMAnswer = ""
	item.LLMError = ""
	item.runSeq = 0
	delete(s.started, item.Path)
}

// UpdateItemText stores a user edit of an item's OCR text.
func (s *Session) UpdateItemText(path, text string) {
	s.mu.Lock()
	index := s.indexOfLocked(path)
	if index < 0 {
		s.mu.Unlock()
		return
	}
	s.items[index].Text = text
	updates := s.maybeAutoRunLocked()
	s.mu.Unlock()
	s.notify(updates)
}

// AcceptCurrent persists a card from the current item and removes the item
// from the queue. On a persistence failure the item stays queued so nothing
// is silently lost.
func (s *Session) AcceptCurrent(question, answer, hint string, collectionID int64, subCollectionID *int64) error {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return fmt.Errorf("question and answer cannot be empty")
	}
	if collectionID == 0 {
		return fmt.Errorf("no destination collection selected")
	}

	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return fmt.Errorf("the queue is empty")
	}
	s.mu.Unlock()

	if _, err := s.cfg.Store.AddCard(question, answer, collectionID, hint, subCollectionID); err != nil {
		return err
	}

	s.removeCurrent()
	return nil
}

// SkipCurrent removes the current item without persisting anything.
func (s *Session) SkipCurrent() error {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return fmt.Errorf("the queue is empty")
	}
	s.mu.Unlock()

	s.removeCurrent()
	return nil
}

func (s *Session) removeCurrent() {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:s.current], s.items[s.current+1:]...)
	s.clampLocked()
	updates := s.maybeAutoRunLocked()
	s.mu.Unlock()

	if s.callbacks.OnQueueChanged != nil {
		s.callbacks.OnQueueChanged()
	}
	s.notify(updates)
}

func (s *Session) clampLocked() {
	if s.current >= len(s.items) {
		s.current = len(s.items) - 1
	}
	if s.current < 0 {
		s.current = 0
	}
}

// Next moves the review pointer forward.
func (s *Session) Next() {
	s.moveCurrent(1)
}

// Prev moves the review pointer backward.
func (s *Session) Prev() {
	s.moveCurrent(-1)
}

func (s *Session) moveCurrent(delta int) {
	s.mu.Lock()
	s.current += delta
	s.clampLocked()
	updates := s.maybeAutoRunLocked()
	s.mu.Unlock()

	if s.callbacks.OnQueueChanged != nil {
		s.callbacks.OnQueueChanged()
	}
	s.notify(updates)
}

// Current returns a snapshot of the current item and its index.
func (s *Session) Current() (Item, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return Item{}, 0, false
	}
	return *s.items[s.current], s.current, true
}

// Items returns a snapshot of the queue.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	for i, it := range s.items {
		items[i] = *it
	}
	return items
}

// Len returns the queue length.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// CurrentIndex returns the review pointer.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Stop ends the run: the queue and tracking sets are cleared, polling
// ceases and in-flight OCR/LLM results are discarded when they resolve.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.epoch++
	cancel := s.cancel
	watcher := s.watcher
	s.cancel = nil
	s.watcher = nil
	s.items = nil
	s.current = 0
	s.known = make(map[string]bool)
	s.started = make(map[string]bool)
	s.mu.Unlock()

	if watcher != nil {
		watcher.Stop()
	}
	if cancel != nil {
		cancel()
	}
	if s.callbacks.OnQueueChanged != nil {
		s.callbacks.OnQueueChanged()
	}
}

func (s *Session) indexOfLocked(path string) int {
	for i, it := range s.items {
		if it.Path == path {
			return i
		}
	}
	return -1
}
