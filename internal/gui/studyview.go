package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/tolvu/cardbox/internal/store"
)

const studyAllSubCollections = "All sub-collections"

// makeStudyScreen builds the study screen: deck filter on top, the card
// face in the middle, navigation at the bottom.
func (a *Application) makeStudyScreen() fyne.CanvasObject {
	a.studyCollectionSelect = widget.NewSelect(nil, func(string) {
		a.reloadStudySubFilter()
		a.loadStudyDeck()
	})
	a.studyCollectionSelect.PlaceHolder = "Collection..."

	a.studySubSelect = widget.NewSelect(nil, func(string) {
		a.loadStudyDeck()
	})
	a.studySubSelect.PlaceHolder = studyAllSubCollections

	filter := container.NewHBox(
		widget.NewLabel("Deck:"),
		a.studyCollectionSelect,
		a.studySubSelect,
	)

	a.studySideLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	a.studyCardLabel = widget.NewLabelWithStyle("Pick a collection to start studying.", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	a.studyCardLabel.Wrapping = fyne.TextWrapWord

	face := container.NewVBox(
		layoutSpacer(),
		a.studySideLabel,
		a.studyCardLabel,
		layoutSpacer(),
	)

	a.flipBtn = ttwidget.NewButtonWithIcon("Flip", theme.ViewRefreshIcon(), a.onStudyFlip)
	a.studyPrevBtn = ttwidget.NewButtonWithIcon("", theme.NavigateBackIcon(), a.onStudyPrev)
	a.studyNextBtn = ttwidget.NewButtonWithIcon("", theme.NavigateNextIcon(), a.onStudyNext)
	a.shuffleBtn = ttwidget.NewButtonWithIcon("Shuffle", theme.MediaReplayIcon(), a.onStudyShuffle)
	a.studySkipBtn = ttwidget.NewButtonWithIcon("Skip", theme.VisibilityOffIcon(), a.onStudySkip)
	a.restartBtn = ttwidget.NewButtonWithIcon("Restart", theme.MediaSkipPreviousIcon(), a.onStudyRestart)

	a.studyCountLabel = widget.NewLabel("")

	controls := container.NewHBox(
		a.studyPrevBtn,
		a.flipBtn,
		a.studyNextBtn,
		widget.NewSeparator(),
		a.shuffleBtn,
		a.studySkipBtn,
		a.restartBtn,
		widget.NewSeparator(),
		a.studyCountLabel,
	)

	return container.NewBorder(
		container.NewVBox(filter, widget.NewSeparator()),
		container.NewVBox(widget.NewSeparator(), controls),
		nil, nil,
		container.NewScroll(face),
	)
}

func layoutSpacer() fyne.CanvasObject {
	return widget.NewLabel("")
}

// reloadStudyFilters refreshes the deck pickers when the user enters the
// study screen.
func (a *Application) reloadStudyFilters() {
	collections, err := a.store.Collections()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.studyCollections = collections
	names := make([]string, len(collections))
	for i, c := range collections {
		names[i] = c.Name
	}
	selected := a.studyCollectionSelect.Selected
	a.studyCollectionSelect.Options = names
	a.studyCollectionSelect.Refresh()
	if selected != "" {
		a.studyCollectionSelect.SetSelected(selected)
	}
}

func (a *Application) reloadStudySubFilter() {
	collection, ok := a.selectedStudyCollection()
	if !ok {
		a.studySubs = nil
		a.studySubSelect.Options = nil
		a.studySubSelect.ClearSelected()
		a.studySubSelect.Refresh()
		return
	}
	subs, err := a.store.SubCollections(collection.ID)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.studySubs = subs
	names := make([]string, 0, len(subs)+1)
	names = append(names, studyAllSubCollections)
	for _, sub := range subs {
		names = append(names, sub.Name)
	}
	a.studySubSelect.Options = names
	a.studySubSelect.SetSelected(studyAllSubCollections)
	a.studySubSelect.Refresh()
}

func (a *Application) selectedStudyCollection() (store.Collection, bool) {
	for _, c := range a.studyCollections {
		if c.Name == a.studyCollectionSelect.Selected {
			return c, true
		}
	}
	return store.Collection{}, false
}

func (a *Application) selectedStudySubCollection() *int64 {
	name := a.studySubSelect.Selected
	if name == "" || name == studyAllSubCollections {
		return nil
	}
	for _, sub := range a.studySubs {
		if sub.Name == name {
			id := sub.ID
			return &id
		}
	}
	return nil
}

func (a *Application) loadStudyDeck() {
	collection, ok := a.selectedStudyCollection()
	if !ok {
		return
	}
	if err := a.studySession.Load(collection.ID, a.selectedStudySubCollection()); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.refreshStudyCard()
}

// refreshStudyCard repaints the card face and the counters.
func (a *Application) refreshStudyCard() {
	card, ok := a.studySession.Current()
	if !ok {
		a.studySideLabel.SetText("")
		if a.studySession.SkippedCount() > 0 {
			a.studyCardLabel.SetText(fmt.Sprintf(
				"No cards to study. %d cards are hidden; unhide them on the Collections screen.",
				a.studySession.SkippedCount()))
		} else {
			a.studyCardLabel.SetText("No cards to study in this deck.")
		}
		a.studyCountLabel.SetText("")
		return
	}

	if a.studySession.Flipped() {
		a.studySideLabel.SetText("Answer")
		a.studyCardLabel.SetText(card.Answer)
	} else {
		a.studySideLabel.SetText("Question")
		text := card.Question
		if card.Hint != "" {
			text += fmt.Sprintf("\n\nHint: %s", card.Hint)
		}
		a.studyCardLabel.SetText(text)
	}

	count := fmt.Sprintf("Card %d of %d", a.studySession.Index()+1, a.studySession.Len())
	if skipped := a.studySession.SkippedCount(); skipped > 0 {
		count += fmt.Sprintf(" (%d hidden)", skipped)
	}
	a.studyCountLabel.SetText(count)
}

func (a *Application) onStudyFlip() {
	a.studySession.Flip()
	a.refreshStudyCard()
}

func (a *Application) onStudyNext() {
	a.studySession.Next()
	a.refreshStudyCard()
}

func (a *Application) onStudyPrev() {
	a.studySession.Prev()
	a.refreshStudyCard()
}

func (a *Application) onStudyShuffle() {
	a.studySession.Shuffle()
	a.refreshStudyCard()
	a.updateStatus("Deck shuffled")
}

func (a *Application) onStudySkip() {
	if err := a.studySession.SkipCurrent(); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.refreshStudyCard()
}

func (a *Application) onStudyRestart() {
	if err := a.studySession.Restart(); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.refreshStudyCard()
	a.updateStatus("Deck reloaded")
}

// setupKeyboardShortcuts wires study navigation onto the keyboard. The
// shortcuts only apply on the study tab and never while an entry has
// focus.
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			a.window.Canvas().Unfocus()
			return
		}
		if a.tabs.Selected() == nil || a.tabs.Selected().Text != "Study" {
			return
		}
		if a.window.Canvas().Focused() != nil {
			return
		}
		switch ev.Name {
		case fyne.KeySpace, fyne.KeyReturn:
			a.onStudyFlip()
		case fyne.KeyRight:
			a.onStudyNext()
		case fyne.KeyLeft:
			a.onStudyPrev()
		}
	})
}
