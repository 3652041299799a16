package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar shows the state of the backend launch and its health.
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	scriptLabel *widget.Label
	activity    *widget.ProgressBarInfinite
}

func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Backend: not started")
	sb.scriptLabel = widget.NewLabel("")
	sb.scriptLabel.Truncation = fyne.TextTruncateEllipsis
	sb.activity = widget.NewProgressBarInfinite()
	sb.activity.Hide()
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewBorder(
		nil, nil,
		container.NewHBox(sb.statusLabel, widget.NewSeparator()),
		nil,
		container.NewVBox(sb.scriptLabel, sb.activity),
	)
}

// SetBackendStatus updates the status text. busy toggles the activity bar.
func (sb *StatusBar) SetBackendStatus(status string, busy bool) {
	fyne.Do(func() {
		sb.statusLabel.SetText(fmt.Sprintf("Backend: %s", status))
		if busy {
			sb.activity.Show()
			sb.activity.Start()
		} else {
			sb.activity.Stop()
			sb.activity.Hide()
		}
	})
}

func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

func (sb *StatusBar) SetScript(path string) {
	fyne.Do(func() {
		sb.scriptLabel.SetText(path)
	})
}

func (sb *StatusBar) GetScript() string {
	return sb.scriptLabel.Text
}

func (sb *StatusBar) IsBusy() bool {
	return sb.activity.Visible()
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
