package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/tolvu/cardbox/internal/bulk"
	"codeberg.org/tolvu/cardbox/internal/scan"
	"codeberg.org/tolvu/cardbox/internal/store"
)

const prefLastBulkDir = "bulk.last_directory"

// makeBulkScreen builds the bulk-create review screen: scan controls on
// top, the current item (page image plus editors) in the middle and the
// accept/skip controls at the bottom.
func (a *Application) makeBulkScreen() fyne.CanvasObject {
	a.bulkDirEntry = widget.NewEntry()
	a.bulkDirEntry.SetPlaceHolder("Directory with photographed pages...")
	a.bulkDirEntry.SetText(a.app.Preferences().String(prefLastBulkDir))

	browseBtn := ttwidget.NewButtonWithIcon("", theme.FolderOpenIcon(), a.onBrowseBulkDir)
	browseBtn.SetToolTip("Choose directory")

	a.bulkFormatSelect = widget.NewSelect([]string{"png", "jpeg", "webp", "gif"}, nil)
	a.bulkFormatSelect.SetSelected("png")

	a.bulkStartBtn = ttwidget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), a.onBulkStartStop)
	a.bulkStartBtn.SetToolTip("Scan the directory and start reviewing")

	a.bulkAutoCheck = widget.NewCheck("Auto-generate", func(enabled bool) {
		a.bulkSession.SetAutoRun(enabled)
	})
	a.bulkAutoCheck.SetChecked(a.config.AutoLLM)

	controls := container.NewBorder(nil, nil,
		container.NewHBox(browseBtn),
		container.NewHBox(a.bulkFormatSelect, a.bulkAutoCheck, a.bulkStartBtn),
		a.bulkDirEntry,
	)

	a.bulkImage = NewImageDisplay()

	a.bulkTextEntry = NewCustomMultiLineEntry()
	a.bulkTextEntry.SetPlaceHolder("Recognized text appears here. Edit freely.")
	a.bulkTextEntry.Wrapping = fyne.TextWrapWord
	a.bulkTextEntry.SetOnEscape(func() { a.window.Canvas().Unfocus() })
	a.bulkTextEntry.OnChanged = func(text string) {
		if a.bulkLoading || a.bulkEditingPath == "" {
			return
		}
		a.bulkSession.UpdateItemText(a.bulkEditingPath, text)
	}

	a.bulkLLMStatus = widget.NewLabel("")
	a.bulkLLMResponse = widget.NewLabel("")
	a.bulkLLMResponse.Wrapping = fyne.TextWrapWord
	a.bulkLLMResponse.TextStyle = fyne.TextStyle{Monospace: true}

	a.bulkRunBtn = ttwidget.NewButtonWithIcon("", theme.MediaPlayIcon(), a.onBulkRun)
	a.bulkResetBtn = ttwidget.NewButtonWithIcon("", theme.ContentClearIcon(), a.onBulkReset)

	a.bulkQuestion = NewCustomMultiLineEntry()
	a.bulkQuestion.SetPlaceHolder("Question...")
	a.bulkQuestion.Wrapping = fyne.TextWrapWord
	a.bulkQuestion.SetOnEscape(func() { a.window.Canvas().Unfocus() })

	a.bulkAnswer = NewCustomMultiLineEntry()
	a.bulkAnswer.SetPlaceHolder("Answer...")
	a.bulkAnswer.Wrapping = fyne.TextWrapWord
	a.bulkAnswer.SetOnEscape(func() { a.window.Canvas().Unfocus() })

	a.bulkHint = widget.NewEntry()
	a.bulkHint.SetPlaceHolder("Hint (optional)...")

	editors := container.NewVBox(
		widget.NewLabel("Recognized text:"),
		a.bulkTextEntry,
		container.NewHBox(a.bulkRunBtn, a.bulkResetBtn, a.bulkLLMStatus),
		widget.NewLabel("Model response:"),
		container.NewScroll(a.bulkLLMResponse),
		widget.NewLabel("Card draft:"),
		a.bulkQuestion,
		a.bulkAnswer,
		a.bulkHint,
	)

	itemSection := container.NewHSplit(a.bulkImage, container.NewScroll(editors))
	itemSection.SetOffset(0.45)

	a.bulkDestCollection = widget.NewSelect(nil, func(string) {
		a.reloadBulkSubCollections()
	})
	a.bulkDestCollection.PlaceHolder = "Collection..."
	a.bulkDestSub = widget.NewSelect(nil, nil)
	a.bulkDestSub.PlaceHolder = "Sub-collection..."

	a.bulkAcceptBtn = ttwidget.NewButtonWithIcon("Accept", theme.ConfirmIcon(), a.onBulkAccept)
	a.bulkSkipBtn = ttwidget.NewButtonWithIcon("Skip", theme.CancelIcon(), a.onBulkSkip)
	a.bulkPrevBtn = ttwidget.NewButtonWithIcon("", theme.NavigateBackIcon(), a.onBulkPrev)
	a.bulkNextBtn = ttwidget.NewButtonWithIcon("", theme.NavigateNextIcon(), a.onBulkNext)
	a.bulkPosition = widget.NewLabel("Queue: empty")

	bottom := container.NewHBox(
		a.bulkPrevBtn, a.bulkNextBtn, a.bulkPosition,
		widget.NewSeparator(),
		a.bulkDestCollection, a.bulkDestSub,
		a.bulkAcceptBtn, a.bulkSkipBtn,
	)

	a.refreshBulkControls()

	return container.NewBorder(
		container.NewVBox(controls, widget.NewSeparator()),
		container.NewVBox(widget.NewSeparator(), bottom),
		nil, nil,
		itemSection,
	)
}

func (a *Application) onBrowseBulkDir() {
	d := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		a.bulkDirEntry.SetText(uri.Path())
	}, a.window)
	if last := a.app.Preferences().String(prefLastBulkDir); last != "" {
		if uri, err := storage.ListerForURI(storage.NewFileURI(last)); err == nil {
			d.SetLocation(uri)
		}
	}
	d.Show()
}

func (a *Application) onBulkStartStop() {
	if a.bulkSession.Active() {
		dialog.ShowConfirm("Stop bulk session",
			"Stop the session? Unreviewed items are discarded.",
			func(confirm bool) {
				if !confirm {
					return
				}
				a.bulkSession.Stop()
				a.updateStatus("Bulk session stopped")
			}, a.window)
		return
	}

	directory := a.bulkDirEntry.Text
	if directory == "" {
		dialog.ShowInformation("No directory", "Choose a directory with page images first.", a.window)
		return
	}

	a.reloadBulkDestinations()
	if err := a.bulkSession.Start(directory, a.bulkFormatSelect.Selected); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.app.Preferences().SetString(prefLastBulkDir, directory)
	a.refreshBulkControls()
	if n, err := scan.CountFiles(directory, a.bulkFormatSelect.Selected); err == nil {
		a.updateStatus(fmt.Sprintf("Recognizing %d images in %s", n, directory))
	} else {
		a.updateStatus(fmt.Sprintf("Scanning %s", directory))
	}
}

// reloadBulkDestinations fills the destination pickers from the database.
func (a *Application) reloadBulkDestinations() {
	collections, err := a.store.Collections()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.bulkDestCollections = collections
	names := make([]string, len(collections))
	for i, c := range collections {
		names[i] = c.Name
	}
	a.bulkDestCollection.Options = names
	a.bulkDestCollection.Refresh()
	a.reloadBulkSubCollections()
}

func (a *Application) reloadBulkSubCollections() {
	collection, ok := a.selectedBulkCollection()
	if !ok {
		a.bulkDestSubs = nil
		a.bulkDestSub.Options = nil
		a.bulkDestSub.ClearSelected()
		a.bulkDestSub.Refresh()
		return
	}
	subs, err := a.store.PickableSubCollections(collection.ID)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.bulkDestSubs = subs
	names := make([]string, 0, len(subs)+1)
	names = append(names, store.NullSubCollectionName)
	for _, sub := range subs {
		names = append(names, sub.Name)
	}
	a.bulkDestSub.Options = names
	a.bulkDestSub.SetSelected(store.NullSubCollectionName)
	a.bulkDestSub.Refresh()
}

func (a *Application) selectedBulkCollection() (store.Collection, bool) {
	for _, c := range a.bulkDestCollections {
		if c.Name == a.bulkDestCollection.Selected {
			return c, true
		}
	}
	return store.Collection{}, false
}

func (a *Application) selectedBulkSubCollection() *int64 {
	for _, sub := range a.bulkDestSubs {
		if sub.Name == a.bulkDestSub.Selected {
			id := sub.ID
			return &id
		}
	}
	return nil
}

// Queue callbacks. These arrive from background goroutines, so every UI
// touch goes through fyne.Do.
func (a *Application) onBulkItemAdded(item bulk.Item, index int) {
	fyne.Do(func() {
		a.refreshBulkItem()
		a.updateStatus(fmt.Sprintf("Recognized %s", item.Path))
	})
}

func (a *Application) onBulkItemUpdated(item bulk.Item, index int) {
	fyne.Do(func() {
		a.refreshBulkItem()
	})
}

func (a *Application) onBulkQueueChanged() {
	fyne.Do(func() {
		a.refreshBulkItem()
		a.refreshBulkControls()
	})
}

// refreshBulkItem repaints the item section for the current queue item.
func (a *Application) refreshBulkItem() {
	item, index, ok := a.bulkSession.Current()
	if !ok {
		a.bulkLoading = true
		a.bulkEditingPath = ""
		a.bulkImage.Clear()
		a.bulkTextEntry.SetText("")
		a.bulkQuestion.SetText("")
		a.bulkAnswer.SetText("")
		a.bulkHint.SetText("")
		a.bulkLLMStatus.SetText("")
		a.bulkLLMResponse.SetText("")
		a.bulkLoading = false
		if a.bulkSession.Active() {
			a.bulkPosition.SetText("Queue: empty (waiting for new files)")
		} else {
			a.bulkPosition.SetText("Queue: empty")
		}
		return
	}

	a.bulkPosition.SetText(fmt.Sprintf("Item %d of %d", index+1, a.bulkSession.Len()))

	switching := a.bulkEditingPath != item.Path
	a.bulkLoading = true
	if switching {
		a.bulkEditingPath = item.Path
		a.bulkImage.SetImage(item.Path)
		a.bulkTextEntry.SetText(item.Text)
		a.bulkHint.SetText("")
	}
	// The draft entries track the model output until the user lands on
	// the item and edits them.
	if switching || a.bulkQuestion.Text == "" {
		a.bulkQuestion.SetText(item.LLMQuestion)
	}
	if switching || a.bulkAnswer.Text == "" {
		a.bulkAnswer.SetText(item.LLMAnswer)
	}
	a.bulkLLMStatus.SetText(item.LLMStatus.String())
	if item.LLMError != "" {
		a.bulkLLMStatus.SetText(fmt.Sprintf("%s: %s", item.LLMStatus, item.LLMError))
	}
	a.bulkLLMResponse.SetText(item.LLMResponse)
	a.bulkLoading = false
}

// refreshBulkControls flips the start button and enables the review
// controls only while a session runs.
func (a *Application) refreshBulkControls() {
	active := a.bulkSession.Active()
	if active {
		a.bulkStartBtn.SetText("Stop")
		a.bulkStartBtn.Icon = theme.MediaStopIcon()
	} else {
		a.bulkStartBtn.SetText("Start")
		a.bulkStartBtn.Icon = theme.MediaPlayIcon()
	}
	a.bulkStartBtn.Refresh()

	buttons := []*ttwidget.Button{
		a.bulkAcceptBtn, a.bulkSkipBtn, a.bulkPrevBtn, a.bulkNextBtn,
		a.bulkRunBtn, a.bulkResetBtn,
	}
	for _, b := range buttons {
		if active {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

func (a *Application) onBulkAccept() {
	collection, ok := a.selectedBulkCollection()
	if !ok {
		dialog.ShowInformation("No destination", "Choose a destination collection first.", a.window)
		return
	}
	err := a.bulkSession.AcceptCurrent(
		a.bulkQuestion.Text,
		a.bulkAnswer.Text,
		a.bulkHint.Text,
		collection.ID,
		a.selectedBulkSubCollection(),
	)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.updateStatus(fmt.Sprintf("Card saved to %q", collection.Name))
	a.refreshBulkItem()
}

func (a *Application) onBulkSkip() {
	if err := a.bulkSession.SkipCurrent(); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.refreshBulkItem()
}

func (a *Application) onBulkPrev() {
	a.bulkSession.Prev()
	a.bulkEditingPath = ""
	a.refreshBulkItem()
}

func (a *Application) onBulkNext() {
	a.bulkSession.Next()
	a.bulkEditingPath = ""
	a.refreshBulkItem()
}

func (a *Application) onBulkRun() {
	item, _, ok := a.bulkSession.Current()
	if !ok {
		return
	}
	if err := a.bulkSession.RunItem(item.Path); err != nil {
		dialog.ShowError(err, a.window)
	}
}

func (a *Application) onBulkReset() {
	item, _, ok := a.bulkSession.Current()
	if !ok {
		return
	}
	if err := a.bulkSession.ResetLLM(item.Path); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.bulkQuestion.SetText("")
	a.bulkAnswer.SetText("")
	a.refreshBulkItem()
}
