package inspector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/vwr2a/sim/engine"
	"github.com/vwr2a/sim/machine"
)

// Inspector is the text user interface for paging through a recorded Trace.
// Unlike the teacher's interactive debugger TUI, it owns no live VM: every
// view except the SPM panel is a pure rendering of tr.Snapshots[cursor];
// the SPM panel reads the post-run engine in Final.
type Inspector struct {
	Trace *Trace
	Final *engine.Engine // post-run engine, for the SPM panel only

	App   *tview.Application
	Pages *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	RegisterView *tview.TextView
	SRFView      *tview.TextView
	VWRView      *tview.TextView
	SPMView      *tview.TextView
	MnemonicView *tview.TextView
	StatusView   *tview.TextView
	CommandInput *tview.InputField

	cursor     int
	vwrLetter  machine.VWRLetter
	spmLineNum int
}

// New builds an inspector over a recorded trace. final is the engine after
// Record returned, used only to read the SPM's final contents.
func New(tr *Trace, final *engine.Engine) *Inspector {
	insp := &Inspector{
		Trace: tr,
		Final: final,
		App:   tview.NewApplication(),
	}
	insp.initializeViews()
	insp.buildLayout()
	insp.setupKeyBindings()
	return insp
}

func (insp *Inspector) initializeViews() {
	insp.RegisterView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	insp.RegisterView.SetBorder(true).SetTitle(" Registers ")

	insp.SRFView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	insp.SRFView.SetBorder(true).SetTitle(" SRF ")

	insp.VWRView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	insp.VWRView.SetBorder(true).SetTitle(" VWR ")

	insp.SPMView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	insp.SPMView.SetBorder(true).SetTitle(" SPM ")

	insp.MnemonicView = tview.NewTextView().SetDynamicColors(true).SetScrollable(false)
	insp.MnemonicView.SetBorder(true).SetTitle(" Cycle ")

	insp.StatusView = tview.NewTextView().SetDynamicColors(true)
	insp.StatusView.SetBorder(true).SetTitle(" Status ")

	insp.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	insp.CommandInput.SetBorder(true).SetTitle(" Goto cycle / command ")
	insp.CommandInput.SetDoneFunc(insp.handleCommand)
}

func (insp *Inspector) buildLayout() {
	insp.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(insp.MnemonicView, 0, 1, false).
		AddItem(insp.RegisterView, 0, 2, false).
		AddItem(insp.SRFView, 6, 0, false)

	insp.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(insp.VWRView, 0, 1, false).
		AddItem(insp.SPMView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(insp.LeftPanel, 0, 1, false).
		AddItem(insp.RightPanel, 0, 1, false)

	insp.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(insp.StatusView, 3, 0, false).
		AddItem(insp.CommandInput, 3, 0, true)

	insp.Pages = tview.NewPages().AddPage("main", insp.MainLayout, true, true)
}

func (insp *Inspector) setupKeyBindings() {
	insp.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyRight:
			insp.seek(insp.cursor + 1)
			return nil
		case tcell.KeyLeft:
			insp.seek(insp.cursor - 1)
			return nil
		case tcell.KeyCtrlC:
			insp.App.Stop()
			return nil
		}
		switch event.Rune() {
		case 'n':
			insp.seek(insp.cursor + 1)
			return nil
		case 'p':
			insp.seek(insp.cursor - 1)
			return nil
		case 'v':
			insp.vwrLetter = (insp.vwrLetter + 1) % 3
			insp.RefreshAll()
			return nil
		case 'q':
			insp.App.Stop()
			return nil
		}
		return event
	})
}

// handleCommand parses the goto-cycle / spm-line command line: a bare
// integer seeks to that cycle, "spm N" jumps the SPM panel to line N.
func (insp *Inspector) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	text := strings.TrimSpace(insp.CommandInput.GetText())
	insp.CommandInput.SetText("")
	if text == "" {
		return
	}

	fields := strings.Fields(text)
	if len(fields) == 2 && fields[0] == "spm" {
		if n, err := strconv.Atoi(fields[1]); err == nil {
			insp.spmLineNum = n
			insp.RefreshAll()
		}
		return
	}
	if n, err := strconv.Atoi(text); err == nil {
		insp.seek(n)
	}
}

func (insp *Inspector) seek(cycle int) {
	if cycle < 0 {
		cycle = 0
	}
	if cycle >= len(insp.Trace.Snapshots) {
		cycle = len(insp.Trace.Snapshots) - 1
	}
	insp.cursor = cycle
	insp.RefreshAll()
}

func (insp *Inspector) current() Snapshot {
	if len(insp.Trace.Snapshots) == 0 {
		return Snapshot{}
	}
	return insp.Trace.Snapshots[insp.cursor]
}

// RefreshAll redraws every panel from the current cursor position.
func (insp *Inspector) RefreshAll() {
	insp.updateMnemonicView()
	insp.updateRegisterView()
	insp.updateSRFView()
	insp.updateVWRView()
	insp.updateSPMView()
	insp.updateStatusView()
	insp.App.Draw()
}

func (insp *Inspector) updateMnemonicView() {
	snap := insp.current()
	labels := [7]string{"LCU", "LSU", "MXCU", "RC0", "RC1", "RC2", "RC3"}

	var lines []string
	for c := 0; c < machine.Cols; c++ {
		col := snap.Columns[c]
		if !col.Active {
			continue
		}
		lines = append(lines, fmt.Sprintf("[yellow]column %d[white]", c))
		for i, label := range labels {
			lines = append(lines, fmt.Sprintf("  %-4s %s", label, col.Mnemonics[i]))
		}
	}
	insp.MnemonicView.SetText(strings.Join(lines, "\n"))
}

func (insp *Inspector) updateRegisterView() {
	snap := insp.current()
	var lines []string
	for c := 0; c < machine.Cols; c++ {
		col := snap.Columns[c]
		if !col.Active {
			continue
		}
		lines = append(lines, fmt.Sprintf("[yellow]column %d[white]", c))
		lines = append(lines, "LCU:  "+regRow(col.LCURegs[:]))
		lines = append(lines, "LSU:  "+regRow(col.LSURegs[:]))
		lines = append(lines, "MXCU: "+regRow(col.MXCURegs[:]))
		for r := 0; r < machine.Rows; r++ {
			lines = append(lines, fmt.Sprintf("RC%d:  %s", r, regRow(col.RCRegs[r][:])))
		}
	}
	insp.RegisterView.SetText(strings.Join(lines, "\n"))
}

func regRow(regs []int32) string {
	var cols []string
	for i, v := range regs {
		cols = append(cols, fmt.Sprintf("R%d=0x%08X", i, uint32(v)))
	}
	return strings.Join(cols, " ")
}

func (insp *Inspector) updateSRFView() {
	snap := insp.current()
	var lines []string
	for c := 0; c < machine.Cols; c++ {
		col := snap.Columns[c]
		if !col.Active {
			continue
		}
		lines = append(lines, fmt.Sprintf("col %d: %s", c, regRow(col.SRF[:])))
	}
	insp.SRFView.SetText(strings.Join(lines, "\n"))
}

func (insp *Inspector) updateVWRView() {
	snap := insp.current()
	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]VWR %s[white] (press 'v' to cycle)", insp.vwrLetter))
	for c := 0; c < machine.Cols; c++ {
		col := snap.Columns[c]
		if !col.Active {
			continue
		}
		lines = append(lines, fmt.Sprintf("column %d:", c))
		lane := col.VWR[insp.vwrLetter]
		for row := 0; row < 8; row++ {
			var cells []string
			for i := 0; i < 16; i++ {
				idx := row*16 + i
				cells = append(cells, fmt.Sprintf("%08X", uint32(lane[idx])))
			}
			lines = append(lines, strings.Join(cells, " "))
		}
	}
	insp.VWRView.SetText(strings.Join(lines, "\n"))
}

func (insp *Inspector) updateSPMView() {
	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]SPM line %d[white] (type \"spm N\" to jump)", insp.spmLineNum))
	if insp.Final != nil {
		if words, err := spmLine(insp.Final, insp.spmLineNum); err == nil {
			for row := 0; row < len(words); row += 8 {
				end := row + 8
				if end > len(words) {
					end = len(words)
				}
				var cells []string
				for _, w := range words[row:end] {
					cells = append(cells, fmt.Sprintf("%08X", uint32(w)))
				}
				lines = append(lines, strings.Join(cells, " "))
			}
		} else {
			lines = append(lines, fmt.Sprintf("[red]%v[white]", err))
		}
	}
	insp.SPMView.SetText(strings.Join(lines, "\n"))
}

func (insp *Inspector) updateStatusView() {
	total := len(insp.Trace.Snapshots)
	snap := insp.current()
	insp.StatusView.SetText(fmt.Sprintf(
		"cycle %d/%d  pc=%d  result=%s (after %d cycles)   n/p or arrows: step, v: vwr letter, q: quit",
		insp.cursor, total-1, snap.PC, insp.Trace.Result.Reason, insp.Trace.Result.Cycles,
	))
}

// Run starts the inspector's event loop.
func (insp *Inspector) Run() error {
	insp.RefreshAll()
	return insp.App.SetRoot(insp.Pages, true).SetFocus(insp.CommandInput).Run()
}

// Stop stops the inspector's event loop.
func (insp *Inspector) Stop() {
	insp.App.Stop()
}
