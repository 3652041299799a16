package views

import (
	"study-desktop/internal/health"
	"study-desktop/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// MainView is the shell's window content. The real UI is served by the
// backend; this view only reports on it.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	title         *widget.Label
	statusBar     *components.StatusBar
}

func NewMainView(window fyne.Window, title string) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents(title)
	view.buildLayout()

	return view
}

func (mv *MainView) initializeComponents(title string) {
	mv.title = widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	mv.mainContainer = container.NewBorder(
		nil,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		container.NewCenter(mv.title),
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) SetScript(path string) {
	mv.statusBar.SetScript(path)
}

// ShowHealth maps a probe status onto the status bar.
func (mv *MainView) ShowHealth(status health.Status) {
	mv.statusBar.SetBackendStatus(status.String(), status == health.Starting)
}

// ShowLaunched is used when health probing is disabled.
func (mv *MainView) ShowLaunched() {
	mv.statusBar.SetBackendStatus("launched", false)
}

func (mv *MainView) StatusBar() *components.StatusBar {
	return mv.statusBar
}
