package gui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/tolvu/cardbox/internal"
	"codeberg.org/tolvu/cardbox/internal/store"
)

// onExport asks what to export and where, then writes the JSON file.
func (a *Application) onExport() {
	collection, hasSelection := a.currentCollection()

	save := func(exportAll bool) {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()

			if exportAll {
				err = a.store.ExportAll(path)
			} else {
				err = a.store.ExportCollection(collection.ID, path)
			}
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.updateStatus(fmt.Sprintf("Exported to %s", path))
		}, a.window)
		if exportAll {
			d.SetFileName("cardbox-export.json")
		} else {
			d.SetFileName(exportFileName(collection.Name))
		}
		d.Show()
	}

	if !hasSelection {
		save(true)
		return
	}

	dialog.ShowConfirm("Export",
		fmt.Sprintf("Export only %q?\n(No exports every collection.)", collection.Name),
		func(onlySelected bool) {
			save(!onlySelected)
		}, a.window)
}

func exportFileName(collectionName string) string {
	name := internal.SanitizeFilename(strings.ToLower(strings.TrimSpace(collectionName)))
	if strings.Trim(name, "_") == "" {
		name = "collection"
	}
	return name + ".json"
}

// onImport reads an export file, previews its contents and asks where the
// cards should go before anything is written.
func (a *Application) onImport() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		summaries, err := store.ReadExportFile(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if len(summaries) == 0 {
			dialog.ShowInformation("Nothing to import", "The file contains no collections.", a.window)
			return
		}

		if len(summaries) == 1 {
			a.importSingle(path, summaries[0])
			return
		}
		a.importAll(path, summaries)
	}, a.window)
	d.Show()
}

// importSingle lets the user pick a destination for a one-collection file:
// a fresh collection or merging into an existing one.
func (a *Application) importSingle(path string, summary store.FileCollectionSummary) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(summary.Name)

	options := []string{"New collection"}
	for _, c := range a.collections {
		options = append(options, "Into: "+c.Name)
	}
	destSelect := widget.NewSelect(options, nil)
	destSelect.SetSelected(options[0])

	info := widget.NewLabel(fmt.Sprintf("%q: %d cards, %d sub-collections",
		summary.Name, summary.CardCount, summary.SubCollectionCount))

	dialog.ShowForm("Import Collection", "Import", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("File", info),
			widget.NewFormItem("Destination", destSelect),
			widget.NewFormItem("Name", nameEntry),
		},
		func(confirm bool) {
			if !confirm {
				return
			}

			var destinationID *int64
			for _, c := range a.collections {
				if destSelect.Selected == "Into: "+c.Name {
					id := c.ID
					destinationID = &id
					break
				}
			}

			result, err := a.store.ImportCollection(path, 0, destinationID, nameEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.reloadCollections()
			a.updateStatus(fmt.Sprintf("Imported %d cards", result.CardsAdded))
		}, a.window)
}

// importAll merges a multi-collection file by collection name.
func (a *Application) importAll(path string, summaries []store.FileCollectionSummary) {
	var lines []string
	total := 0
	for _, s := range summaries {
		lines = append(lines, fmt.Sprintf("%s (%d cards)", s.Name, s.CardCount))
		total += s.CardCount
	}

	dialog.ShowConfirm("Import All",
		fmt.Sprintf("Import %d cards?\n\n%s\n\nCollections with matching names are merged; duplicates are skipped.",
			total, strings.Join(lines, "\n")),
		func(confirm bool) {
			if !confirm {
				return
			}
			result, err := a.store.ImportAll(path)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.reloadCollections()
			a.updateStatus(fmt.Sprintf("Imported %d cards into %d collections", result.CardsAdded, result.Collections))
		}, a.window)
}
