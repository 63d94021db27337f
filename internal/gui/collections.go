package gui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/tolvu/cardbox/internal/store"
)

// makeCollectionsScreen builds the management screen: collections on the
// left, sub-collections in the middle, cards and the card editor on the
// right.
func (a *Application) makeCollectionsScreen() fyne.CanvasObject {
	a.collectionList = widget.NewList(
		func() int { return len(a.collections) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(a.collections[i].Name)
		},
	)
	a.collectionList.OnSelected = func(i widget.ListItemID) {
		a.selectedCollection = i
		a.reloadSubCollections()
		a.reloadCards()
	}

	addCollectionBtn := ttwidget.NewButtonWithIcon("", theme.ContentAddIcon(), a.onAddCollection)
	addCollectionBtn.SetToolTip("New collection")
	renameCollectionBtn := ttwidget.NewButtonWithIcon("", theme.DocumentCreateIcon(), a.onRenameCollection)
	renameCollectionBtn.SetToolTip("Rename collection")
	deleteCollectionBtn := ttwidget.NewButtonWithIcon("", theme.DeleteIcon(), a.onDeleteCollection)
	deleteCollectionBtn.SetToolTip("Delete collection and all its cards")
	exportBtn := ttwidget.NewButtonWithIcon("", theme.UploadIcon(), a.onExport)
	exportBtn.SetToolTip("Export to JSON")
	importBtn := ttwidget.NewButtonWithIcon("", theme.DownloadIcon(), a.onImport)
	importBtn.SetToolTip("Import from JSON")

	collectionPane := container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("Collections", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			container.NewHBox(addCollectionBtn, renameCollectionBtn, deleteCollectionBtn, widget.NewSeparator(), exportBtn, importBtn),
		),
		nil, nil, nil,
		a.collectionList,
	)

	a.subCollectionList = widget.NewList(
		func() int { return len(a.subCollections) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(a.subCollections[i].Name)
		},
	)
	a.subCollectionList.OnSelected = func(i widget.ListItemID) {
		a.selectedSubCollection = i
	}

	addSubBtn := ttwidget.NewButtonWithIcon("", theme.ContentAddIcon(), a.onAddSubCollection)
	addSubBtn.SetToolTip("New sub-collection")
	renameSubBtn := ttwidget.NewButtonWithIcon("", theme.DocumentCreateIcon(), a.onRenameSubCollection)
	renameSubBtn.SetToolTip("Rename sub-collection")
	deleteSubBtn := ttwidget.NewButtonWithIcon("", theme.DeleteIcon(), a.onDeleteSubCollection)
	deleteSubBtn.SetToolTip("Delete sub-collection (cards move to the unfiled group)")

	subPane := container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("Sub-collections", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			container.NewHBox(addSubBtn, renameSubBtn, deleteSubBtn),
		),
		nil, nil, nil,
		a.subCollectionList,
	)

	a.cardList = widget.NewList(
		func() int { return len(a.cards) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(cardListLabel(a.cards[i]))
		},
	)
	a.cardList.OnSelected = func(i widget.ListItemID) {
		a.selectedCard = i
		a.loadCardEditor(a.cards[i])
	}

	newCardBtn := ttwidget.NewButtonWithIcon("", theme.ContentAddIcon(), a.onNewCard)
	newCardBtn.SetToolTip("Clear the editor for a new card")
	saveCardBtn := ttwidget.NewButtonWithIcon("", theme.DocumentSaveIcon(), a.onSaveCard)
	saveCardBtn.SetToolTip("Save the card")
	deleteCardBtn := ttwidget.NewButtonWithIcon("", theme.DeleteIcon(), a.onDeleteCard)
	deleteCardBtn.SetToolTip("Delete the card")
	moveCardBtn := ttwidget.NewButtonWithIcon("", theme.MailForwardIcon(), a.onMoveCard)
	moveCardBtn.SetToolTip("Move or copy the card to another collection")
	unskipBtn := ttwidget.NewButtonWithIcon("", theme.ViewRefreshIcon(), a.onClearSkipped)
	unskipBtn.SetToolTip("Unhide all skipped cards in this collection")

	a.questionEntry = NewCustomMultiLineEntry()
	a.questionEntry.SetPlaceHolder("Question...")
	a.questionEntry.Wrapping = fyne.TextWrapWord
	a.questionEntry.SetOnEscape(func() { a.window.Canvas().Unfocus() })

	a.answerEntry = NewCustomMultiLineEntry()
	a.answerEntry.SetPlaceHolder("Answer...")
	a.answerEntry.Wrapping = fyne.TextWrapWord
	a.answerEntry.SetOnEscape(func() { a.window.Canvas().Unfocus() })

	a.hintEntry = widget.NewEntry()
	a.hintEntry.SetPlaceHolder("Hint (optional)...")

	a.cardSubSelect = widget.NewSelect(nil, nil)
	a.cardSubSelect.PlaceHolder = "(unfiled)"

	a.cardStatusLabel = widget.NewLabel("")

	editor := container.NewVBox(
		widget.NewLabelWithStyle("Card", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.questionEntry,
		a.answerEntry,
		a.hintEntry,
		a.cardSubSelect,
		a.cardStatusLabel,
		container.NewHBox(newCardBtn, saveCardBtn, deleteCardBtn, moveCardBtn, widget.NewSeparator(), unskipBtn),
	)

	cardPane := container.NewBorder(
		widget.NewLabelWithStyle("Cards", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		editor,
		nil, nil,
		a.cardList,
	)

	left := container.NewHSplit(collectionPane, subPane)
	left.SetOffset(0.5)
	screen := container.NewHSplit(left, cardPane)
	screen.SetOffset(0.4)
	return screen
}

func cardListLabel(card store.Card) string {
	question := card.Question
	if len(question) > 60 {
		question = question[:57] + "..."
	}
	question = strings.ReplaceAll(question, "\n", " ")
	if card.Skipped {
		return question + " [skipped]"
	}
	return question
}

// reloadCollections refreshes the collection list from the database and
// cascades into the dependent lists.
func (a *Application) reloadCollections() {
	collections, err := a.store.Collections()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.collections = collections
	if a.selectedCollection >= len(a.collections) {
		a.selectedCollection = len(a.collections) - 1
	}
	if a.selectedCollection < 0 && len(a.collections) > 0 {
		a.selectedCollection = 0
	}
	a.collectionList.Refresh()
	if a.selectedCollection >= 0 {
		a.collectionList.Select(a.selectedCollection)
	}
	a.reloadSubCollections()
	a.reloadCards()
}

func (a *Application) currentCollection() (store.Collection, bool) {
	if a.selectedCollection < 0 || a.selectedCollection >= len(a.collections) {
		return store.Collection{}, false
	}
	return a.collections[a.selectedCollection], true
}

func (a *Application) reloadSubCollections() {
	collection, ok := a.currentCollection()
	if !ok {
		a.subCollections = nil
		a.subCollectionList.Refresh()
		return
	}
	subs, err := a.store.PickableSubCollections(collection.ID)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.subCollections = subs
	a.selectedSubCollection = -1
	a.subCollectionList.UnselectAll()
	a.subCollectionList.Refresh()

	// The card editor's sub-collection picker follows the same list.
	names := make([]string, 0, len(subs)+1)
	names = append(names, store.NullSubCollectionName)
	for _, sub := range subs {
		names = append(names, sub.Name)
	}
	a.cardSubSelect.Options = names
	a.cardSubSelect.Refresh()
}

func (a *Application) reloadCards() {
	collection, ok := a.currentCollection()
	if !ok {
		a.cards = nil
		a.cardList.Refresh()
		return
	}
	cards, err := a.store.Cards(collection.ID)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.cards = cards
	a.selectedCard = -1
	a.cardList.UnselectAll()
	a.cardList.Refresh()
	a.clearCardEditor()
}

func (a *Application) loadCardEditor(card store.Card) {
	a.questionEntry.SetText(card.Question)
	a.answerEntry.SetText(card.Answer)
	a.hintEntry.SetText(card.Hint)
	a.cardSubSelect.SetSelected(a.subCollectionNameByID(card.SubCollectionID))
	if card.Skipped {
		a.cardStatusLabel.SetText("This card is hidden from study sessions.")
	} else {
		a.cardStatusLabel.SetText("")
	}
}

func (a *Application) clearCardEditor() {
	a.questionEntry.SetText("")
	a.answerEntry.SetText("")
	a.hintEntry.SetText("")
	a.cardSubSelect.ClearSelected()
	a.cardStatusLabel.SetText("")
}

func (a *Application) subCollectionNameByID(id int64) string {
	for _, sub := range a.subCollections {
		if sub.ID == id {
			return sub.Name
		}
	}
	return store.NullSubCollectionName
}

// selectedEditorSubCollection resolves the picker back to an ID; nil means
// the unfiled group.
func (a *Application) selectedEditorSubCollection() *int64 {
	name := a.cardSubSelect.Selected
	for _, sub := range a.subCollections {
		if sub.Name == name {
			id := sub.ID
			return &id
		}
	}
	return nil
}

func (a *Application) onAddCollection() {
	entry := widget.NewEntry()
	dialog.ShowForm("New Collection", "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(confirm bool) {
			if !confirm {
				return
			}
			if _, err := a.store.CreateCollection(entry.Text); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.reloadCollections()
			a.updateStatus(fmt.Sprintf("Created collection %q", strings.TrimSpace(entry.Text)))
		}, a.window)
}

func (a *Application) onRenameCollection() {
	collection, ok := a.currentCollection()
	if !ok {
		return
	}
	entry := widget.NewEntry()
	entry.SetText(collection.Name)
	dialog.ShowForm("Rename Collection", "Rename", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(confirm bool) {
			if !confirm {
				return
			}
			if err := a.store.RenameCollection(collection.ID, entry.Text); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.reloadCollections()
		}, a.window)
}

func (a *Application) onDeleteCollection() {
	collection, ok := a.currentCollection()
	if !ok {
		return
	}
	dialog.ShowConfirm("Delete Collection",
		fmt.Sprintf("Delete %q and every card in it?", collection.Name),
		func(confirm bool) {
			if !confirm {
				return
			}
			if err := a.store.DeleteCollection(collection.ID); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.selectedCollection = -1
			a.reloadCollections()
			a.updateStatus(fmt.Sprintf("Deleted collection %q", collection.Name))
		}, a.window)
}

func (a *Application) onAddSubCollection() {
	collection, ok := a.currentCollection()
	if !ok {
		return
	}
	entry := widget.NewEntry()
	dialog.ShowForm("New Sub-collection", "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(confirm bool) {
			if !confirm {
				return
			}
			if _, err := a.store.CreateSubCollection(collection.ID, entry.Text); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.reloadSubCollections()
		}, a.window)
}

func (a *Application) onRenameSubCollection() {
	if a.selectedSubCollection < 0 || a.selectedSubCollection >= len(a.subCollections) {
		return
	}
	sub := a.subCollections[a.selectedSubCollection]
	entry := widget.NewEntry()
	entry.SetText(sub.Name)
	dialog.ShowForm("Rename Sub-collection", "Rename", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(confirm bool) {
			if !confirm {
				return
			}
			if err := a.store.RenameSubCollection(sub.ID, entry.Text); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.reloadSubCollections()
		}, a.window)
}

func (a *Application) onDeleteSubCollection() {
	if a.selectedSubCollection < 0 || a.selectedSubCollection >= len(a.subCollections) {
		return
	}
	sub := a.subCollections[a.selectedSubCollection]
	dialog.ShowConfirm("Delete Sub-collection",
		fmt.Sprintf("Delete %q? Its cards move to the unfiled group.", sub.Name),
		func(confirm bool) {
			if !confirm {
				return
			}
			if err := a.store.DeleteSubCollection(sub.ID); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.reloadSubCollections()
			a.reloadCards()
		}, a.window)
}

func (a *Application) onNewCard() {
	a.selectedCard = -1
	a.cardList.UnselectAll()
	a.clearCardEditor()
	a.window.Canvas().Focus(a.questionEntry)
}

func (a *Application) onSaveCard() {
	collection, ok := a.currentCollection()
	if !ok {
		dialog.ShowInformation("No collection", "Select a collection first.", a.window)
		return
	}

	subID := a.selectedEditorSubCollection()
	if a.selectedCard >= 0 && a.selectedCard < len(a.cards) {
		card := a.cards[a.selectedCard]
		err := a.store.UpdateCard(card.ID, a.questionEntry.Text, a.answerEntry.Text, collection.ID, a.hintEntry.Text, subID)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.updateStatus("Card updated")
	} else {
		_, err := a.store.AddCard(a.questionEntry.Text, a.answerEntry.Text, collection.ID, a.hintEntry.Text, subID)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.updateStatus("Card added")
	}
	a.reloadCards()
}

func (a *Application) onDeleteCard() {
	if a.selectedCard < 0 || a.selectedCard >= len(a.cards) {
		return
	}
	card := a.cards[a.selectedCard]
	dialog.ShowConfirm("Delete Card", "Delete this card?",
		func(confirm bool) {
			if !confirm {
				return
			}
			if err := a.store.DeleteCard(card.ID); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.selectedCard = -1
			a.reloadCards()
			a.updateStatus("Card deleted")
		}, a.window)
}

// onMoveCard relocates the selected card into another collection, or
// duplicates it there when the copy box is ticked. The card lands in the
// destination's unfiled group.
func (a *Application) onMoveCard() {
	if a.selectedCard < 0 || a.selectedCard >= len(a.cards) {
		return
	}
	card := a.cards[a.selectedCard]
	source, ok := a.currentCollection()
	if !ok {
		return
	}

	names := make([]string, 0, len(a.collections))
	byName := make(map[string]store.Collection, len(a.collections))
	for _, c := range a.collections {
		if c.ID == source.ID {
			continue
		}
		names = append(names, c.Name)
		byName[c.Name] = c
	}
	if len(names) == 0 {
		dialog.ShowInformation("No destination", "There is no other collection to move the card to.", a.window)
		return
	}

	destSelect := widget.NewSelect(names, nil)
	destSelect.SetSelectedIndex(0)
	copyCheck := widget.NewCheck("Keep a copy here", nil)

	dialog.ShowForm("Move Card", "Move", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Destination", destSelect),
			widget.NewFormItem("", copyCheck),
		},
		func(confirm bool) {
			if !confirm {
				return
			}
			dest, ok := byName[destSelect.Selected]
			if !ok {
				return
			}
			if copyCheck.Checked {
				if _, err := a.store.AddCard(card.Question, card.Answer, dest.ID, card.Hint, nil); err != nil {
					dialog.ShowError(err, a.window)
					return
				}
				a.updateStatus(fmt.Sprintf("Card copied to %q", dest.Name))
			} else {
				if err := a.store.UpdateCard(card.ID, card.Question, card.Answer, dest.ID, card.Hint, nil); err != nil {
					dialog.ShowError(err, a.window)
					return
				}
				a.updateStatus(fmt.Sprintf("Card moved to %q", dest.Name))
			}
			a.reloadCards()
		}, a.window)
}

func (a *Application) onClearSkipped() {
	collection, ok := a.currentCollection()
	if !ok {
		return
	}
	if err := a.store.ClearSkipped(collection.ID); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.reloadCards()
	a.updateStatus("All skipped cards are visible again")
}
