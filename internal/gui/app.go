package gui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/tolvu/cardbox/internal"
	"codeberg.org/tolvu/cardbox/internal/bulk"
	"codeberg.org/tolvu/cardbox/internal/llm"
	"codeberg.org/tolvu/cardbox/internal/ocr"
	"codeberg.org/tolvu/cardbox/internal/store"
	"codeberg.org/tolvu/cardbox/internal/study"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window
	tabs   *container.AppTabs

	// Persistence and pipeline collaborators
	store        *store.Store
	bulkSession  *bulk.Session
	studySession *study.Session

	// Collections screen
	collectionList        *widget.List
	subCollectionList     *widget.List
	cardList              *widget.List
	collections           []store.Collection
	subCollections        []store.SubCollection
	cards                 []store.Card
	selectedCollection    int // index into collections, -1 when none
	selectedSubCollection int // index into subCollections, -1 when none
	selectedCard          int // index into cards, -1 when none
	questionEntry         *CustomMultiLineEntry
	answerEntry           *CustomMultiLineEntry
	hintEntry             *widget.Entry
	cardSubSelect         *widget.Select
	cardStatusLabel       *widget.Label

	// Bulk-create screen
	bulkDirEntry        *widget.Entry
	bulkFormatSelect    *widget.Select
	bulkStartBtn        *ttwidget.Button
	bulkAutoCheck       *widget.Check
	bulkImage           *ImageDisplay
	bulkTextEntry       *CustomMultiLineEntry
	bulkQuestion        *CustomMultiLineEntry
	bulkAnswer          *CustomMultiLineEntry
	bulkHint            *widget.Entry
	bulkLLMStatus       *widget.Label
	bulkLLMResponse     *widget.Label
	bulkPosition        *widget.Label
	bulkRunBtn          *ttwidget.Button
	bulkResetBtn        *ttwidget.Button
	bulkAcceptBtn       *ttwidget.Button
	bulkSkipBtn         *ttwidget.Button
	bulkPrevBtn         *ttwidget.Button
	bulkNextBtn         *ttwidget.Button
	bulkDestCollection  *widget.Select
	bulkDestSub         *widget.Select
	bulkDestCollections []store.Collection
	bulkDestSubs        []store.SubCollection
	bulkEditingPath     string // path of the item the editors belong to
	bulkLoading         bool   // suppress OnChanged while programmatically filling entries

	// Study screen
	studyCollectionSelect *widget.Select
	studySubSelect        *widget.Select
	studyCardLabel        *widget.Label
	studySideLabel        *widget.Label
	studyCountLabel       *widget.Label
	studyCollections      []store.Collection
	studySubs             []store.SubCollection
	flipBtn               *ttwidget.Button
	studyPrevBtn          *ttwidget.Button
	studyNextBtn          *ttwidget.Button
	shuffleBtn            *ttwidget.Button
	studySkipBtn          *ttwidget.Button
	restartBtn            *ttwidget.Button

	// Status bar
	statusLabel *widget.Label
	themeBtn    *ttwidget.Button

	// Configuration
	config *Config
}

// Config holds GUI application configuration
type Config struct {
	Store        *store.Store
	OCR          ocr.Provider
	Generator    llm.Generator
	Host         llm.HostKind
	AutoLLM      bool
	PollInterval time.Duration
}

// New creates a new GUI application
func New(config *Config) *Application {
	myApp := app.NewWithID("org.codeberg.tolvu.cardbox")

	a := &Application{
		app:                   myApp,
		config:                config,
		store:                 config.Store,
		selectedCollection:    -1,
		selectedSubCollection: -1,
		selectedCard:          -1,
	}

	a.studySession = study.NewSession(config.Store)
	a.bulkSession = bulk.NewSession(bulk.Config{
		OCR:          config.OCR,
		Generator:    config.Generator,
		Store:        config.Store,
		Host:         config.Host,
		AutoRun:      config.AutoLLM,
		PollInterval: config.PollInterval,
	}, bulk.Callbacks{
		OnItemAdded:    a.onBulkItemAdded,
		OnItemUpdated:  a.onBulkItemUpdated,
		OnQueueChanged: a.onBulkQueueChanged,
	})

	a.setupUI()
	a.reloadCollections()

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("Cardbox v%s", internal.Version))
	a.window.Resize(fyne.NewSize(1000, 700))

	a.applySavedTheme()

	a.statusLabel = widget.NewLabel("Ready")
	a.themeBtn = ttwidget.NewButtonWithIcon("", theme.ColorPaletteIcon(), a.onToggleTheme)

	a.tabs = container.NewAppTabs(
		container.NewTabItem("Collections", a.makeCollectionsScreen()),
		container.NewTabItem("Bulk Create", a.makeBulkScreen()),
		container.NewTabItem("Study", a.makeStudyScreen()),
	)
	a.tabs.OnSelected = a.onTabSelected

	content := container.NewBorder(
		nil,
		container.NewVBox(widget.NewSeparator(),
			container.NewBorder(nil, nil, nil, a.themeBtn, a.statusLabel)),
		nil, nil,
		a.tabs,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()
	a.setupKeyboardShortcuts()

	a.window.SetOnClosed(func() {
		a.bulkSession.Stop()
		if err := a.store.Close(); err != nil {
			fmt.Printf("Warning: failed to close database: %v\n", err)
		}
	})
}

// onTabSelected gates navigation while a bulk session is running so the
// in-memory queue is not abandoned by accident.
func (a *Application) onTabSelected(item *container.TabItem) {
	if item.Text == "Bulk Create" || !a.bulkSession.Active() {
		if item.Text == "Study" {
			a.reloadStudyFilters()
		}
		if item.Text == "Collections" {
			a.reloadCollections()
		}
		return
	}
	a.tabs.SelectIndex(1)
	dialog.ShowInformation("Bulk session running",
		"Stop the bulk create session before leaving this screen.\nThe review queue only lives in memory.", a.window)
}

func (a *Application) setupTooltips() {
	a.bulkRunBtn.SetToolTip("Generate question/answer from the text")
	a.bulkResetBtn.SetToolTip("Discard the generated draft")
	a.bulkAcceptBtn.SetToolTip("Save as a card and remove from queue")
	a.bulkSkipBtn.SetToolTip("Remove from queue without saving")
	a.bulkPrevBtn.SetToolTip("Previous queue item")
	a.bulkNextBtn.SetToolTip("Next queue item")
	a.flipBtn.SetToolTip("Flip the card (space)")
	a.studyPrevBtn.SetToolTip("Previous card (←)")
	a.studyNextBtn.SetToolTip("Next card (→)")
	a.shuffleBtn.SetToolTip("Shuffle the deck")
	a.studySkipBtn.SetToolTip("Hide this card from future sessions")
	a.restartBtn.SetToolTip("Reload the deck")
	a.themeBtn.SetToolTip("Toggle light/dark theme")
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
}

// updateStatus sets the status bar text. Safe to call from the UI
// goroutine only; background code wraps it in fyne.Do.
func (a *Application) updateStatus(status string) {
	a.statusLabel.SetText(status)
}
