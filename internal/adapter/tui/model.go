package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rl1809/pedidos-client/internal/core/domain"
	"github.com/rl1809/pedidos-client/internal/core/service"
)

// Session is the state machine the terminal drives.
type Session interface {
	Dispatch(ctx context.Context, action service.Action) (service.View, error)
	View() service.View
}

// Model is the Bubble Tea model of the terminal client.
type Model struct {
	session Session
	timeout time.Duration
	styles  Styles

	view   service.View
	cursor int
	err    error

	input     textinput.Model
	prompting bool
	spinner   spinner.Model
	pending   int
	width     int
}

// dispatchedMsg reports a finished Dispatch. The model re-reads the session
// view instead of trusting the returned one, since dispatches may finish out
// of order.
type dispatchedMsg struct {
	err error
}

func NewModel(session Session, timeout time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = DefaultStyles().Title

	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 30

	m := Model{
		session: session,
		timeout: timeout,
		styles:  DefaultStyles(),
		view:    session.View(),
		input:   ti,
		spinner: sp,
	}
	m.resetInput()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dispatchedMsg:
		m.pending--
		m.err = msg.err
		prev := m.view.Screen
		m.view = m.session.View()
		if m.view.Screen != prev {
			m.cursor = 0
			m.prompting = false
			m.resetInput()
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.view.Screen == domain.ScreenLogin {
		switch key {
		case "esc":
			return m, tea.Quit
		case "enter":
			return m.send(service.ActionLogin, m.input.Value())
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.prompting {
		switch key {
		case "esc":
			m.prompting = false
			m.resetInput()
			return m, nil
		case "enter":
			courier := m.input.Value()
			m.prompting = false
			m.resetInput()
			return m.send(service.ActionSubmit, courier)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "s":
		return m.send(service.ActionSignOut, "")
	case "r":
		return m.send(service.ActionRefresh, "")
	case "up", "k":
		m.cursor--
		m.clampCursor()
		return m, nil
	case "down", "j":
		m.cursor++
		m.clampCursor()
		return m, nil
	}

	switch m.view.Screen {
	case domain.ScreenRestaurantList:
		if key == "enter" && m.cursor < len(m.view.Restaurants) {
			return m.send(service.ActionSelectRestaurant, m.view.Restaurants[m.cursor].ID)
		}

	case domain.ScreenMenu:
		switch key {
		case "enter", "+", "a":
			if m.cursor < len(m.view.Menu) {
				return m.send(service.ActionAddItem, m.view.Menu[m.cursor].ID)
			}
		case "-", "x":
			if m.cursor < len(m.view.Menu) {
				return m.send(service.ActionRemoveItem, m.view.Menu[m.cursor].ID)
			}
		case "c":
			m.prompting = true
			m.input.Placeholder = "id do entregador (opcional)"
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		case "h":
			return m.send(service.ActionOpenHistory, "")
		case "b":
			return m.send(service.ActionChangeRestaurant, "")
		}

	case domain.ScreenTracking:
		switch key {
		case "m":
			return m.send(service.ActionShowMenu, "")
		case "h":
			return m.send(service.ActionOpenHistory, "")
		case "b":
			return m.send(service.ActionChangeRestaurant, "")
		}

	case domain.ScreenOrderHistory:
		switch key {
		case "enter":
			if m.cursor < len(m.view.Orders) {
				return m.send(service.ActionSelectOrder, m.view.Orders[m.cursor].ID)
			}
		case "m":
			return m.send(service.ActionShowMenu, "")
		case "b":
			return m.send(service.ActionChangeRestaurant, "")
		}
	}

	return m, nil
}

// send runs the action off the UI goroutine.
func (m Model) send(typ service.ActionType, arg string) (tea.Model, tea.Cmd) {
	m.pending++
	session, timeout := m.session, m.timeout
	action := service.Action{Type: typ, Argument: arg}

	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := session.Dispatch(ctx, action)
		return dispatchedMsg{err: err}
	}
}

func (m *Model) resetInput() {
	m.input.SetValue("")
	if m.view.Screen == domain.ScreenLogin {
		m.input.Placeholder = "identificador do cliente"
		m.input.Focus()
		return
	}
	m.input.Blur()
}

func (m *Model) clampCursor() {
	n := 0
	switch m.view.Screen {
	case domain.ScreenRestaurantList:
		n = len(m.view.Restaurants)
	case domain.ScreenMenu:
		n = len(m.view.Menu)
	case domain.ScreenOrderHistory:
		n = len(m.view.Orders)
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder

	header := m.styles.Title.Render("Pedidos")
	if m.view.CustomerName != "" {
		header += m.styles.Muted.Render("  " + m.view.CustomerName)
	}
	if m.pending > 0 {
		header += " " + m.spinner.View()
	}
	b.WriteString(header + "\n\n")

	switch m.view.Screen {
	case domain.ScreenLogin:
		b.WriteString(m.styles.Subtitle.Render("Entrar") + "\n")
		b.WriteString(m.input.View() + "\n")
	case domain.ScreenRestaurantList:
		b.WriteString(m.restaurantsView())
	case domain.ScreenMenu:
		b.WriteString(m.menuView())
	case domain.ScreenTracking:
		b.WriteString(m.trackingView())
	case domain.ScreenOrderHistory:
		b.WriteString(m.historyView())
	}

	if m.err != nil {
		b.WriteString("\n" + m.styles.Error.Render(errorText(m.err)) + "\n")
	}
	b.WriteString(m.styles.Help.Render(helpText(m.view.Screen, m.prompting)) + "\n")
	return b.String()
}

func (m Model) restaurantsView() string {
	if len(m.view.Restaurants) == 0 {
		return m.styles.Muted.Render("Nenhum restaurante disponível.") + "\n"
	}
	lines := make([]string, len(m.view.Restaurants))
	for i, r := range m.view.Restaurants {
		lines[i] = r.Name
		if r.Address != "" {
			lines[i] += m.styles.Muted.Render("  " + r.Address)
		}
	}
	return m.styles.Subtitle.Render("Restaurantes") + "\n" + m.list(lines)
}

func (m Model) menuView() string {
	var b strings.Builder
	title := "Cardápio"
	if m.view.Restaurant != nil {
		title += " - " + m.view.Restaurant.Name
	}
	b.WriteString(m.styles.Subtitle.Render(title) + "\n")

	if len(m.view.Menu) == 0 {
		b.WriteString(m.styles.Muted.Render("Cardápio vazio.") + "\n")
	} else {
		qty := make(map[string]int, len(m.view.Cart.Lines))
		for _, l := range m.view.Cart.Lines {
			qty[l.ProductID] = l.Quantity
		}
		lines := make([]string, len(m.view.Menu))
		for i, item := range m.view.Menu {
			lines[i] = fmt.Sprintf("%-24s %10s", item.Name, money(item.UnitPrice))
			if q := qty[item.ID]; q > 0 {
				lines[i] += m.styles.Notice.Render(fmt.Sprintf("  x%d", q))
			}
		}
		b.WriteString(m.list(lines))
	}

	b.WriteString("\n" + m.styles.Box.Render(m.cartView()) + "\n")

	if m.prompting {
		b.WriteString(m.input.View() + "\n")
	}
	if m.view.Submitting {
		b.WriteString(m.styles.Muted.Render("Enviando pedido...") + "\n")
	}
	if m.view.Status != "" {
		style := m.styles.Error
		if m.view.Status == service.StatusOrderPlaced {
			style = m.styles.Notice
		}
		b.WriteString(style.Render(m.view.Status) + "\n")
	}
	return b.String()
}

func (m Model) cartView() string {
	if len(m.view.Cart.Lines) == 0 {
		return m.styles.Muted.Render("Carrinho vazio")
	}
	var b strings.Builder
	for _, l := range m.view.Cart.Lines {
		fmt.Fprintf(&b, "%dx %-20s %10s\n", l.Quantity, l.ProductName, money(l.Subtotal()))
	}
	fmt.Fprintf(&b, "%-23s %10s", "Total", money(m.view.Cart.Total))
	return b.String()
}

func (m Model) trackingView() string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("Pedido "+m.view.OrderID) + "\n")
	if m.view.Notice != "" {
		b.WriteString(m.styles.Notice.Render(m.view.Notice) + "\n")
	}
	if m.view.Delivery == nil {
		b.WriteString(m.styles.Muted.Render("Consultando entrega...") + "\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Entregador: %s\nStatus:     %s\n", m.view.Delivery.CourierLabel, m.view.Delivery.StatusLabel)
	return b.String()
}

func (m Model) historyView() string {
	if len(m.view.Orders) == 0 {
		return m.styles.Muted.Render("Nenhum pedido encontrado.") + "\n"
	}
	lines := make([]string, len(m.view.Orders))
	for i, o := range m.view.Orders {
		lines[i] = fmt.Sprintf("%-12s %10s  %s", o.ID, money(o.TotalValue), o.Status)
	}
	return m.styles.Subtitle.Render("Meus pedidos") + "\n" + m.list(lines)
}

func (m Model) list(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> "+line) + "\n")
			continue
		}
		b.WriteString(m.styles.Item.Render("  "+line) + "\n")
	}
	return b.String()
}

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

func errorText(err error) string {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		return validation.Message
	case errors.Is(err, service.ErrSubmitInProgress):
		return "Aguarde o envio do pedido."
	case errors.Is(err, service.ErrInvalidTransition):
		return "Ação indisponível nesta tela."
	}
	return err.Error()
}

func helpText(screen domain.ScreenName, prompting bool) string {
	if prompting {
		return "enter enviar • esc cancelar"
	}
	switch screen {
	case domain.ScreenLogin:
		return "enter entrar • esc sair"
	case domain.ScreenRestaurantList:
		return "↑/↓ navegar • enter abrir • r atualizar • s sair da conta • q fechar"
	case domain.ScreenMenu:
		return "↑/↓ navegar • +/- item • c finalizar • h pedidos • b restaurantes • r atualizar • s sair da conta"
	case domain.ScreenTracking:
		return "r atualizar • m cardápio • h pedidos • b restaurantes • s sair da conta"
	case domain.ScreenOrderHistory:
		return "↑/↓ navegar • enter acompanhar • m cardápio • b restaurantes • r atualizar • s sair da conta"
	}
	return ""
}
