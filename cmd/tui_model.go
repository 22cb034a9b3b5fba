package cmd

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swilhoit/sunbeam/internal/catalog"
	"github.com/swilhoit/sunbeam/internal/display"
	"github.com/swilhoit/sunbeam/internal/filter"
)

const (
	minTUIWidth  = 92
	minTUIHeight = 24
)

var (
	tuiHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	tuiMetaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiHintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiValueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tuiSaleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tuiSoldStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	tuiTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tuiMutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	tuiSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
)

type tuiLoadConfig struct {
	snapshotPath string
	initialSpec  filter.Spec
}

type tuiDataLoadedMsg struct {
	snapshotLabel string
	allProducts   []catalog.EnrichedProduct
	initialSpec   filter.Spec
}

type tuiDataLoadErrMsg struct {
	err error
}

type tuiFocus int

const (
	tuiFocusList tuiFocus = iota
	tuiFocusDetail
)

type tuiGroupItem struct {
	name    string
	count   int
	ordinal int
}

func (g tuiGroupItem) FilterValue() string { return strings.ToLower(g.name) }
func (g tuiGroupItem) Title() string       { return fmt.Sprintf("%d. %s", g.ordinal, g.name) }
func (g tuiGroupItem) Description() string {
	return fmt.Sprintf("Section header • %d pieces • x toggles category filter", g.count)
}

type tuiProductItem struct {
	product     catalog.EnrichedProduct
	group       string
	title       string
	description string
	filterValue string
}

func (p tuiProductItem) FilterValue() string { return p.filterValue }
func (p tuiProductItem) Title() string       { return p.title }
func (p tuiProductItem) Description() string { return p.description }

type catalogTUIModel struct {
	loading  bool
	spinner  spinner.Model
	loadCmd  tea.Cmd
	fatalErr error

	snapshotLabel string
	allProducts   []catalog.EnrichedProduct
	priceBounds   filter.PriceRange

	spec        filter.Spec
	initialSpec filter.Spec

	sortChoices     []filter.SortKey
	sortIndex       int
	categoryChoices [][]string
	categoryIndex   int
	roomChoices     [][]catalog.Room
	roomIndex       int
	styleChoices    [][]catalog.Style
	styleIndex      int
	limitChoices    []int
	limitIndex      int

	list   list.Model
	detail viewport.Model

	focus      tuiFocus
	showHelp   bool
	selectedID string

	groupStarts     []int
	visibleProducts int

	width, height   int
	bodyHeight      int
	listPaneWidth   int
	detailPaneWidth int
	tooSmall        bool
}

func newLoadingCatalogTUIModel(cfg tuiLoadConfig) catalogTUIModel {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(1)

	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "Catalog"
	lst.SetStatusBarItemName("item", "items")
	lst.SetShowStatusBar(true)
	lst.SetFilteringEnabled(true)
	lst.SetShowHelp(false)
	lst.SetShowPagination(true)
	lst.DisableQuitKeybindings()

	detail := viewport.New(0, 0)
	detail.KeyMap.PageDown.SetKeys("f", "pgdown")
	detail.KeyMap.PageUp.SetKeys("b", "pgup")
	detail.KeyMap.HalfPageDown.SetKeys("d")
	detail.KeyMap.HalfPageUp.SetKeys("u")

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	return catalogTUIModel{
		loading:     true,
		spinner:     spin,
		loadCmd:     loadTUIDataCmd(cfg),
		initialSpec: cfg.initialSpec,
		spec:        cfg.initialSpec,
		list:        lst,
		detail:      detail,
		focus:       tuiFocusList,
	}
}

func loadTUIDataCmd(cfg tuiLoadConfig) tea.Cmd {
	return func() tea.Msg {
		products, err := loadTUIData(cfg.snapshotPath)
		if err != nil {
			return tuiDataLoadErrMsg{err: err}
		}
		return tuiDataLoadedMsg{
			snapshotLabel: cfg.snapshotPath,
			allProducts:   products,
			initialSpec:   cfg.initialSpec,
		}
	}
}

func loadTUIData(path string) ([]catalog.EnrichedProduct, error) {
	cat, err := loadCatalog(path)
	if err != nil {
		return nil, err
	}
	if cat.Len() == 0 {
		return nil, notFoundError(
			fmt.Sprintf("catalog is empty: %s", path),
			"sunbeam fetch && sunbeam enrich",
		)
	}
	return cat.All(), nil
}

func (m catalogTUIModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd)
}

func (m catalogTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tuiDataLoadedMsg:
		m.loading = false
		m.snapshotLabel = msg.snapshotLabel
		m.allProducts = msg.allProducts
		m.priceBounds = filter.PriceRangeOf(msg.allProducts)
		m.initialSpec = msg.initialSpec
		m.initialSpec.Categories = filter.ResolveCategories(
			msg.initialSpec.Categories, filter.AvailableCategories(msg.allProducts))
		m.spec = m.initialSpec
		m.initializeInlineChoices()
		m.applyCurrentFilters(true)
		m.resize()
		return m, nil

	case tuiDataLoadErrMsg:
		m.loading = false
		m.fatalErr = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loading {
			if keyMsg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.loading {
		return m, nil
	}

	if isKey {
		filtering := m.list.FilterState() == list.Filtering
		key := keyMsg.String()

		switch key {
		case "q":
			if !filtering {
				return m, tea.Quit
			}
		case "tab":
			if !filtering {
				if m.focus == tuiFocusList {
					m.focus = tuiFocusDetail
				} else {
					m.focus = tuiFocusList
				}
				return m, nil
			}
		case "esc":
			if m.focus == tuiFocusDetail && !filtering {
				m.focus = tuiFocusList
				return m, nil
			}
		case "?":
			if !filtering {
				m.showHelp = !m.showHelp
				m.resize()
				return m, nil
			}
		case "s":
			if !filtering {
				m.cycleSort()
				return m, nil
			}
		case "c":
			if !filtering {
				m.cycleCategory()
				return m, nil
			}
		case "o":
			if !filtering {
				m.cycleRoom()
				return m, nil
			}
		case "y":
			if !filtering {
				m.cycleStyle()
				return m, nil
			}
		case "l":
			if !filtering {
				m.cycleLimit()
				return m, nil
			}
		case "x":
			if !filtering {
				if group, ok := m.list.SelectedItem().(tuiGroupItem); ok {
					m.toggleCategory(group.name)
				}
				return m, nil
			}
		case "r":
			if !filtering {
				m.spec = m.initialSpec
				m.syncChoiceIndexesFromSpec()
				m.applyCurrentFilters(false)
				return m, nil
			}
		case "]":
			if !filtering {
				if m.list.IsFiltered() {
					return m, m.list.NewStatusMessage("Clear fuzzy filter before section jumps.")
				}
				m.jumpSection(1)
				return m, nil
			}
		case "[":
			if !filtering {
				if m.list.IsFiltered() {
					return m, m.list.NewStatusMessage("Clear fuzzy filter before section jumps.")
				}
				m.jumpSection(-1)
				return m, nil
			}
		}

		if !filtering && len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if m.list.IsFiltered() {
				return m, m.list.NewStatusMessage("Clear fuzzy filter before section jumps.")
			}
			m.jumpToSection(int(key[0] - '1'))
			return m, nil
		}

		if m.focus == tuiFocusDetail && !filtering {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.refreshDetail(false)
	return m, cmd
}

func (m catalogTUIModel) View() string {
	if m.loading {
		return m.loadingView()
	}
	if m.width == 0 || m.height == 0 {
		return tuiMetaStyle.Render("Loading interface...")
	}
	if m.tooSmall {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(
				fmt.Sprintf(
					"Terminal too small (%dx%d).\nResize to at least %dx%d for the two-pane catalog browser.",
					m.width, m.height, minTUIWidth, minTUIHeight,
				),
			)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.bodyView(),
		m.footerView(),
	)
}

func (m catalogTUIModel) loadingView() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	skeletonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	lines := []string{
		tuiHeaderStyle.Render("sunbeam tui"),
		tuiMetaStyle.Render("Preparing interactive interface..."),
		"",
		fmt.Sprintf("%s Loading catalog snapshot", m.spinner.View()),
		tuiHintStyle.Render("Tip: press q to cancel."),
		"",
		skeletonStyle.Render("┌──────────────────────────────┬─────────────────────────────────────────┐"),
		skeletonStyle.Render("│  Loading product list...     │  Loading detail panel...               │"),
		skeletonStyle.Render("│  • categories                │  • price and sale status               │"),
		skeletonStyle.Render("│  • sections                  │  • style, era, condition, dimensions   │"),
		skeletonStyle.Render("│  • filter index              │  • scroll viewport                     │"),
		skeletonStyle.Render("└──────────────────────────────┴─────────────────────────────────────────┘"),
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (m *catalogTUIModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	if m.loading {
		return
	}

	m.tooSmall = m.width < minTUIWidth || m.height < minTUIHeight
	if m.tooSmall {
		return
	}

	headerH := 3
	footerH := 2
	if m.showHelp {
		footerH = 7
	}
	m.bodyHeight = max(8, m.height-headerH-footerH-1)

	listWidth := max(40, int(float64(m.width)*0.43))
	if listWidth > m.width-42 {
		listWidth = m.width / 2
	}
	detailWidth := m.width - listWidth - 1
	if detailWidth < 36 {
		detailWidth = 36
		listWidth = m.width - detailWidth - 1
	}

	m.listPaneWidth = listWidth
	m.detailPaneWidth = detailWidth

	listInnerWidth := max(24, listWidth-4)
	detailInnerWidth := max(24, detailWidth-4)
	panelInnerHeight := max(6, m.bodyHeight-2)

	m.list.SetSize(listInnerWidth, panelInnerHeight)
	m.detail.Width = detailInnerWidth
	m.detail.Height = panelInnerHeight
	m.refreshDetail(false)
}

func (m catalogTUIModel) headerView() string {
	focus := "list"
	if m.focus == tuiFocusDetail {
		focus = "detail"
	}

	top := fmt.Sprintf("sunbeam tui  |  %s", m.snapshotLabel)
	bottom := fmt.Sprintf(
		"pieces: %d visible / %d total  |  filters: %s  |  focus: %s",
		m.visibleProducts, len(m.allProducts), m.activeFilterSummary(), focus,
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(tuiHeaderStyle.Render(top) + "\n" + tuiMetaStyle.Render(bottom))
}

func (m catalogTUIModel) bodyView() string {
	listBorder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1)
	detailBorder := listBorder

	if m.focus == tuiFocusList {
		listBorder = listBorder.BorderForeground(lipgloss.Color("86"))
	} else {
		detailBorder = detailBorder.BorderForeground(lipgloss.Color("86"))
	}

	left := listBorder.
		Width(m.listPaneWidth).
		Height(m.bodyHeight).
		Render(m.list.View())
	right := detailBorder.
		Width(m.detailPaneWidth).
		Height(m.bodyHeight).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m catalogTUIModel) footerView() string {
	base := "Tab switch pane • / fuzzy filter • s sort • c category • o room • y style • l limit • x toggle section • r reset • [/] section jump • q quit"
	if m.focus == tuiFocusDetail {
		base = "Detail: j/k or ↑/↓ scroll • u/d half-page • b/f page • esc list • ? help • q quit"
	}

	if !m.showHelp {
		return lipgloss.NewStyle().Padding(0, 1).Render(tuiHintStyle.Render(base))
	}

	lines := []string{
		"Key Help",
		"list pane: ↑/↓ or j/k move • / fuzzy filter • c category • o room • y style • s sort • l limit",
		"sections: x on a header toggles that category • ] next • [ previous • 1..9 jump to numbered header",
		"detail pane: j/k or ↑/↓ scroll • u/d half-page • b/f page up/down",
		"global: tab switch pane • esc list • r reset inline options • ? toggle help • q quit • ctrl+c force quit",
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(tuiHintStyle.Render(strings.Join(lines, "\n")))
}

func (m *catalogTUIModel) initializeInlineChoices() {
	m.sortChoices = []filter.SortKey{filter.SortNewest, filter.SortPriceAsc, filter.SortPriceDesc, filter.SortName}
	m.categoryChoices = buildChoices(filter.AvailableCategories(m.allProducts), m.spec.Categories)
	m.roomChoices = buildChoices(filter.AvailableRooms(m.allProducts), m.spec.Rooms)
	m.styleChoices = buildChoices(filter.AvailableStyles(m.allProducts), m.spec.Styles)
	m.limitChoices = buildLimitChoices(m.spec.Limit)

	m.syncChoiceIndexesFromSpec()
}

func (m *catalogTUIModel) syncChoiceIndexesFromSpec() {
	m.sortIndex = max(0, slices.Index(m.sortChoices, m.spec.Sort))
	m.spec.Sort = m.sortChoices[m.sortIndex]

	m.categoryIndex = max(0, indexOfChoice(m.categoryChoices, m.spec.Categories))
	m.roomIndex = max(0, indexOfChoice(m.roomChoices, m.spec.Rooms))
	m.styleIndex = max(0, indexOfChoice(m.styleChoices, m.spec.Styles))

	m.limitIndex = slices.Index(m.limitChoices, m.spec.Limit)
	if m.limitIndex < 0 {
		m.limitIndex = 0
		m.spec.Limit = m.limitChoices[m.limitIndex]
	}
}

func (m *catalogTUIModel) cycleSort() {
	if len(m.sortChoices) == 0 {
		return
	}
	m.sortIndex = (m.sortIndex + 1) % len(m.sortChoices)
	m.spec.Sort = m.sortChoices[m.sortIndex]
	m.applyCurrentFilters(false)
}

func (m *catalogTUIModel) cycleCategory() {
	if len(m.categoryChoices) == 0 {
		return
	}
	m.categoryIndex = (m.categoryIndex + 1) % len(m.categoryChoices)
	m.spec.Categories = slices.Clone(m.categoryChoices[m.categoryIndex])
	m.applyCurrentFilters(false)
}

func (m *catalogTUIModel) cycleRoom() {
	if len(m.roomChoices) == 0 {
		return
	}
	m.roomIndex = (m.roomIndex + 1) % len(m.roomChoices)
	m.spec.Rooms = slices.Clone(m.roomChoices[m.roomIndex])
	m.applyCurrentFilters(false)
}

func (m *catalogTUIModel) cycleStyle() {
	if len(m.styleChoices) == 0 {
		return
	}
	m.styleIndex = (m.styleIndex + 1) % len(m.styleChoices)
	m.spec.Styles = slices.Clone(m.styleChoices[m.styleIndex])
	m.applyCurrentFilters(false)
}

func (m *catalogTUIModel) cycleLimit() {
	if len(m.limitChoices) == 0 {
		return
	}
	m.limitIndex = (m.limitIndex + 1) % len(m.limitChoices)
	m.spec.Limit = m.limitChoices[m.limitIndex]
	m.applyCurrentFilters(false)
}

// toggleCategory adds or removes a section's category from the selection.
// A combination that is not one of the cycle choices becomes one.
func (m *catalogTUIModel) toggleCategory(name string) {
	if name == tuiOtherGroup {
		return
	}
	m.spec.Categories = slices.Clone(m.spec.Categories)
	m.spec.ToggleCategory(name)
	if len(m.spec.Categories) == 0 {
		m.spec.Categories = nil
	}
	if indexOfChoice(m.categoryChoices, m.spec.Categories) < 0 {
		m.categoryChoices = append(m.categoryChoices, slices.Clone(m.spec.Categories))
	}
	m.categoryIndex = indexOfChoice(m.categoryChoices, m.spec.Categories)
	m.applyCurrentFilters(false)
}

func (m catalogTUIModel) activeFilterSummary() string {
	if !filter.HasActiveFilters(m.spec, m.priceBounds) && m.spec.Limit == 0 &&
		strings.TrimSpace(m.list.FilterValue()) == "" {
		return "none"
	}

	parts := []string{}
	if len(m.spec.Categories) > 0 {
		parts = append(parts, "category:"+strings.Join(m.spec.Categories, "|"))
	}
	if len(m.spec.Rooms) > 0 {
		parts = append(parts, "room:"+joinLabels(m.spec.Rooms))
	}
	if len(m.spec.Styles) > 0 {
		parts = append(parts, "style:"+joinLabels(m.spec.Styles))
	}
	for _, dim := range []struct {
		name    string
		buckets []filter.Bucket
	}{{"width", m.spec.Widths}, {"depth", m.spec.Depths}, {"height", m.spec.Heights}} {
		if len(dim.buckets) > 0 {
			parts = append(parts, dim.name+":"+joinLabels(dim.buckets))
		}
	}
	if m.spec.MinPrice != nil || m.spec.MaxPrice != nil {
		low, high := m.priceBounds.Min, m.priceBounds.Max
		if m.spec.MinPrice != nil {
			low = *m.spec.MinPrice
		}
		if m.spec.MaxPrice != nil {
			high = *m.spec.MaxPrice
		}
		parts = append(parts, fmt.Sprintf("price:%s-%s", display.FormatPrice(low), display.FormatPrice(high)))
	}
	if m.spec.Query != "" {
		parts = append(parts, "query:"+m.spec.Query)
	}
	if m.spec.Sort != filter.SortNewest {
		parts = append(parts, "sort:"+m.spec.Sort.String())
	}
	if m.spec.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit:%d", m.spec.Limit))
	}
	if fuzzy := strings.TrimSpace(m.list.FilterValue()); fuzzy != "" {
		parts = append(parts, "fuzzy:"+fuzzy)
	}
	return strings.Join(parts, ", ")
}

func (m *catalogTUIModel) applyCurrentFilters(resetSelection bool) {
	currentID := m.selectedID
	filtered := filter.Apply(m.allProducts, m.spec)
	m.visibleProducts = len(filtered)

	items, starts := buildGroupedListItems(filtered)
	m.groupStarts = starts

	m.list.Title = fmt.Sprintf("Catalog • %d visible", m.visibleProducts)
	m.list.SetItems(items)

	target := -1
	if !resetSelection && currentID != "" {
		target = findItemIndexByID(items, currentID)
	}
	if target < 0 {
		target = firstProductItemIndex(items)
	}
	if target < 0 && len(items) > 0 {
		target = 0
	}
	if target >= 0 {
		m.list.Select(target)
	}

	m.refreshDetail(true)
}

func (m *catalogTUIModel) refreshDetail(resetScroll bool) {
	var content string
	nextID := ""

	if selected := m.list.SelectedItem(); selected != nil {
		switch item := selected.(type) {
		case tuiProductItem:
			content = renderProductDetailContent(item.product, m.detail.Width)
			nextID = stableIDForProduct(item.product)
		case tuiGroupItem:
			content = m.renderGroupDetail(item)
			nextID = stableIDForGroup(item.name)
		}
	}
	if content == "" {
		content = "No pieces match the current inline filters.\n\nTry pressing r to reset filters."
	}

	if resetScroll || nextID != m.selectedID {
		m.detail.GotoTop()
	}
	m.selectedID = nextID
	m.detail.SetContent(content)
}

func (m catalogTUIModel) renderGroupDetail(group tuiGroupItem) string {
	preview := m.groupPreviewTitles(group.name, 5)

	lines := []string{
		tuiSectionStyle.Render(fmt.Sprintf("Section %d: %s", group.ordinal, group.name)),
		tuiMetaStyle.Render(fmt.Sprintf("%d pieces in this section", group.count)),
		"",
		tuiMetaStyle.Render("Keys:"),
		"- `x` toggle this category as a filter",
		"- `]` next section, `[` previous section",
		"- `1..9` jump directly to section number",
	}
	if len(preview) > 0 {
		lines = append(lines, "")
		lines = append(lines, tuiMetaStyle.Render("Preview:"))
		for _, title := range preview {
			lines = append(lines, "• "+title)
		}
	}

	return strings.Join(lines, "\n")
}

func (m catalogTUIModel) groupPreviewTitles(group string, limit int) []string {
	out := make([]string, 0, limit)
	for _, item := range m.list.Items() {
		p, ok := item.(tuiProductItem)
		if !ok || p.group != group {
			continue
		}
		out = append(out, p.title)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (m *catalogTUIModel) jumpToSection(index int) {
	if index < 0 || index >= len(m.groupStarts) {
		return
	}

	target := firstProductIndexFrom(m.list.Items(), m.groupStarts[index])
	if target < 0 {
		target = m.groupStarts[index]
	}
	m.list.Select(target)
	m.refreshDetail(true)
}

func (m *catalogTUIModel) jumpSection(delta int) {
	if len(m.groupStarts) == 0 {
		return
	}

	current := m.currentSectionIndex()
	if current < 0 {
		current = 0
	}
	next := current + delta
	if next < 0 {
		next = len(m.groupStarts) - 1
	}
	if next >= len(m.groupStarts) {
		next = 0
	}
	m.jumpToSection(next)
}

func (m catalogTUIModel) currentSectionIndex() int {
	if len(m.groupStarts) == 0 {
		return -1
	}
	cursor := m.list.GlobalIndex()
	current := 0
	for i, start := range m.groupStarts {
		if start <= cursor {
			current = i
			continue
		}
		break
	}
	return current
}

const tuiOtherGroup = "Other"

// buildGroupedListItems sections products by normalized category, largest
// section first. Products keep their filtered order within a section.
func buildGroupedListItems(products []catalog.EnrichedProduct) (items []list.Item, starts []int) {
	if len(products) == 0 {
		return nil, nil
	}

	groups := map[string][]catalog.EnrichedProduct{}
	for _, p := range products {
		group := productGroupLabel(p)
		groups[group] = append(groups[group], p)
	}

	type groupMeta struct {
		name  string
		count int
	}

	metas := make([]groupMeta, 0, len(groups))
	for name, members := range groups {
		metas = append(metas, groupMeta{name: name, count: len(members)})
	}
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].name == tuiOtherGroup && metas[j].name != tuiOtherGroup {
			return false
		}
		if metas[j].name == tuiOtherGroup && metas[i].name != tuiOtherGroup {
			return true
		}
		if metas[i].count != metas[j].count {
			return metas[i].count > metas[j].count
		}
		return metas[i].name < metas[j].name
	})

	items = make([]list.Item, 0, len(products)+len(metas))
	starts = make([]int, 0, len(metas))
	for idx, meta := range metas {
		starts = append(starts, len(items))

		items = append(items, tuiGroupItem{
			name:    meta.name,
			count:   meta.count,
			ordinal: idx + 1,
		})
		for _, p := range groups[meta.name] {
			items = append(items, buildTUIProductItem(p, meta.name))
		}
	}

	return items, starts
}

func productGroupLabel(p catalog.EnrichedProduct) string {
	if c := strings.TrimSpace(p.NormalizedCategory); c != "" {
		return c
	}
	return tuiOtherGroup
}

func productTitle(p catalog.EnrichedProduct) string {
	if title := strings.TrimSpace(p.Title); title != "" {
		return title
	}
	if p.Handle != "" {
		return p.Handle
	}
	return "Untitled piece"
}

func buildTUIProductItem(p catalog.EnrichedProduct, group string) tuiProductItem {
	title := productTitle(p)

	descParts := []string{display.FormatPrice(p.Price)}
	switch {
	case p.IsSold:
		descParts = append(descParts, "SOLD")
	case p.IsOnSale:
		descParts = append(descParts, fmt.Sprintf("SALE %d%% off", display.SavingsPercent(p)))
	}
	if p.Style != catalog.StyleNone {
		descParts = append(descParts, p.Style.String())
	}
	if p.Era != catalog.EraNone {
		descParts = append(descParts, p.Era.String())
	}

	filterTokens := []string{
		title,
		p.Handle,
		p.Vendor,
		p.ProductType,
		group,
		strings.Join(p.Tags, " "),
		strings.Join(p.Materials, " "),
		joinLabels(p.Rooms),
	}
	if p.Style != catalog.StyleNone {
		filterTokens = append(filterTokens, p.Style.String())
	}
	if p.Era != catalog.EraNone {
		filterTokens = append(filterTokens, p.Era.String())
	}

	return tuiProductItem{
		product:     p,
		group:       group,
		title:       title,
		description: strings.Join(descParts, "  •  "),
		filterValue: strings.ToLower(strings.Join(filterTokens, " ")),
	}
}

func renderProductDetailContent(p catalog.EnrichedProduct, width int) string {
	maxWidth := max(24, width)

	lines := []string{
		tuiTitleStyle.Render(wrapText(productTitle(p), maxWidth)),
	}

	badges := []string{}
	switch {
	case p.IsSold:
		badges = append(badges, tuiSoldStyle.Render("SOLD"))
	case p.IsOnSale:
		badges = append(badges, tuiSaleStyle.Render(fmt.Sprintf("SALE %d%% off", display.SavingsPercent(p))))
	}
	if p.NormalizedCategory != "" {
		badges = append(badges, p.NormalizedCategory)
	}
	if len(badges) > 0 {
		lines = append(lines, tuiMetaStyle.Render(wrapText(strings.Join(badges, "  |  "), maxWidth)))
	}

	lines = append(lines, "")
	price := tuiValueStyle.Render(display.FormatPrice(p.Price))
	if p.CompareAtPrice != nil && p.IsOnSale {
		price += " " + tuiMutedStyle.Render("was "+display.FormatPrice(*p.CompareAtPrice))
	}
	lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render("Price:"), price))

	attr := func(name, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("%s %s", tuiMetaStyle.Render(name+":"), wrapText(value, maxWidth)))
		}
	}
	attr("Rooms", joinLabels(p.Rooms))
	if p.Style != catalog.StyleNone {
		attr("Style", p.Style.String())
	}
	if p.Era != catalog.EraNone {
		attr("Era", p.Era.String())
	}
	if p.Condition != catalog.ConditionNone {
		attr("Condition", p.Condition.String())
	}
	attr("Materials", strings.Join(p.Materials, ", "))
	attr("Dimensions", display.FormatDimensions(p.Dimensions))
	if size := p.Dimensions.Size(); size != catalog.SizeNone {
		attr("Size", size.String())
	}
	attr("Vendor", p.Vendor)
	attr("Tags", strings.Join(p.Tags, ", "))

	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		desc = "No description provided."
	}
	lines = append(lines, "")
	lines = append(lines, tuiMetaStyle.Render("Description:"))
	for _, para := range strings.Split(desc, "\n") {
		lines = append(lines, wrapText(para, maxWidth))
	}

	lines = append(lines, "")
	lines = append(lines, tuiMutedStyle.Render("Handle: "+p.Handle))
	if len(p.Images) > 0 && p.Images[0].Original != "" {
		lines = append(lines, tuiMutedStyle.Render("Image URL:"))
		lines = append(lines, tuiMutedStyle.Render(wrapText(p.Images[0].Original, maxWidth)))
	}

	return strings.Join(lines, "\n")
}

func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if width < 12 {
		width = 12
	}

	line := words[0]
	lines := make([]string, 0, len(words)/6+1)
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// buildChoices returns the inline cycle for one facet: no constraint, then
// each available value alone, plus current when it is a combination.
func buildChoices[T comparable](available []T, current []T) [][]T {
	out := make([][]T, 0, len(available)+2)
	out = append(out, nil)
	for _, v := range available {
		out = append(out, []T{v})
	}
	if len(current) > 0 && indexOfChoice(out, current) < 0 {
		out = append(out, slices.Clone(current))
	}
	return out
}

func indexOfChoice[T comparable](choices [][]T, current []T) int {
	for i, choice := range choices {
		if slices.Equal(choice, current) {
			return i
		}
	}
	return -1
}

func buildLimitChoices(current int) []int {
	values := []int{0, 10, 25, 50, 100}
	if current > 0 && !slices.Contains(values, current) {
		values = append(values, current)
		slices.Sort(values)
	}
	return values
}

func joinLabels[T fmt.Stringer](values []T) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return strings.Join(out, ", ")
}

func findItemIndexByID(items []list.Item, stableID string) int {
	for i, item := range items {
		if stableIDForItem(item) == stableID {
			return i
		}
	}
	return -1
}

func firstProductItemIndex(items []list.Item) int {
	return firstProductIndexFrom(items, 0)
}

func firstProductIndexFrom(items []list.Item, start int) int {
	for i := start; i < len(items); i++ {
		if _, ok := items[i].(tuiProductItem); ok {
			return i
		}
	}
	return -1
}

func stableIDForItem(item list.Item) string {
	switch value := item.(type) {
	case tuiProductItem:
		return stableIDForProduct(value.product)
	case tuiGroupItem:
		return stableIDForGroup(value.name)
	default:
		return ""
	}
}

func stableIDForProduct(p catalog.EnrichedProduct) string {
	if p.Handle != "" {
		return "product:" + p.Handle
	}
	return "product:id:" + strconv.FormatInt(p.ID, 10)
}

func stableIDForGroup(group string) string {
	return "group:" + strings.ToLower(strings.TrimSpace(group))
}
