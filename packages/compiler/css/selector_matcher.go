package css

// SelectorMatcher matches CSS selectors against a registry of selectables.
// It is built once from the selectors of every directive in a compilation
// scope and then queried per template element.
type SelectorMatcher[T any] struct {
	elementMap          map[string][]*SelectorContext[T]
	elementPartialMap   map[string]*SelectorMatcher[T]
	classMap            map[string][]*SelectorContext[T]
	classPartialMap     map[string]*SelectorMatcher[T]
	attrValueMap        map[string]map[string][]*SelectorContext[T]
	attrValuePartialMap map[string]map[string]*SelectorMatcher[T]
	listContexts        []*SelectorListContext
}

// NewSelectorMatcher creates a new SelectorMatcher
func NewSelectorMatcher[T any]() *SelectorMatcher[T] {
	return &SelectorMatcher[T]{
		elementMap:          make(map[string][]*SelectorContext[T]),
		elementPartialMap:   make(map[string]*SelectorMatcher[T]),
		classMap:            make(map[string][]*SelectorContext[T]),
		classPartialMap:     make(map[string]*SelectorMatcher[T]),
		attrValueMap:        make(map[string]map[string][]*SelectorContext[T]),
		attrValuePartialMap: make(map[string]map[string]*SelectorMatcher[T]),
		listContexts:        []*SelectorListContext{},
	}
}

// CreateNotMatcher creates a matcher over the :not sub-selectors
func CreateNotMatcher(notSelectors []*CssSelector) *SelectorMatcher[interface{}] {
	notMatcher := NewSelectorMatcher[interface{}]()
	notMatcher.AddSelectables(notSelectors, nil)
	return notMatcher
}

// AddSelectables adds selectables to the matcher
func (sm *SelectorMatcher[T]) AddSelectables(cssSelectors []*CssSelector, callbackCtxt *T) {
	var listContext *SelectorListContext
	if len(cssSelectors) > 1 {
		listContext = NewSelectorListContext(cssSelectors)
		sm.listContexts = append(sm.listContexts, listContext)
	}

	for _, cssSelector := range cssSelectors {
		sm.addSelectable(cssSelector, callbackCtxt, listContext)
	}
}

func (sm *SelectorMatcher[T]) addSelectable(cssSelector *CssSelector, callbackCtxt *T, listContext *SelectorListContext) {
	matcher := sm
	element := cssSelector.Element
	classNames := cssSelector.ClassNames
	attrs := cssSelector.Attrs
	selectable := NewSelectorContext(cssSelector, callbackCtxt, listContext)

	if element != nil {
		isTerminal := len(attrs) == 0 && len(classNames) == 0
		if isTerminal {
			sm.addTerminal(sm.elementMap, *element, selectable)
		} else {
			matcher = sm.addPartial(sm.elementPartialMap, *element)
		}
	}

	for i, className := range classNames {
		isTerminal := len(attrs) == 0 && i == len(classNames)-1
		if isTerminal {
			sm.addTerminal(matcher.classMap, className, selectable)
		} else {
			matcher = sm.addPartial(matcher.classPartialMap, className)
		}
	}

	for i := 0; i < len(attrs); i += 2 {
		isTerminal := i == len(attrs)-2
		name := attrs[i]
		value := ""
		if i+1 < len(attrs) {
			value = attrs[i+1]
		}

		if isTerminal {
			terminalValuesMap, ok := matcher.attrValueMap[name]
			if !ok {
				terminalValuesMap = make(map[string][]*SelectorContext[T])
				matcher.attrValueMap[name] = terminalValuesMap
			}
			sm.addTerminal(terminalValuesMap, value, selectable)
		} else {
			partialValuesMap, ok := matcher.attrValuePartialMap[name]
			if !ok {
				partialValuesMap = make(map[string]*SelectorMatcher[T])
				matcher.attrValuePartialMap[name] = partialValuesMap
			}
			matcher = sm.addPartial(partialValuesMap, value)
		}
	}
}

func (sm *SelectorMatcher[T]) addTerminal(map_ map[string][]*SelectorContext[T], name string, selectable *SelectorContext[T]) {
	map_[name] = append(map_[name], selectable)
}

func (sm *SelectorMatcher[T]) addPartial(map_ map[string]*SelectorMatcher[T], name string) *SelectorMatcher[T] {
	matcher, ok := map_[name]
	if !ok {
		matcher = NewSelectorMatcher[T]()
		map_[name] = matcher
	}
	return matcher
}

// MatchCallback is a function type for match callbacks
type MatchCallback[T any] func(c *CssSelector, a *T)

// Match finds all selectables matching the given CssSelector and invokes the
// callback for each. Returns true if at least one selectable matched.
func (sm *SelectorMatcher[T]) Match(cssSelector *CssSelector, matchedCallback MatchCallback[T]) bool {
	result := false
	element := ""
	if cssSelector.Element != nil {
		element = *cssSelector.Element
	}
	classNames := cssSelector.ClassNames
	attrs := cssSelector.Attrs

	for _, listContext := range sm.listContexts {
		listContext.AlreadyMatched = false
	}

	result = sm.matchTerminal(sm.elementMap, element, cssSelector, matchedCallback) || result
	result = sm.matchPartial(sm.elementPartialMap, element, cssSelector, matchedCallback) || result

	for _, className := range classNames {
		result = sm.matchTerminal(sm.classMap, className, cssSelector, matchedCallback) || result
		result = sm.matchPartial(sm.classPartialMap, className, cssSelector, matchedCallback) || result
	}

	for i := 0; i < len(attrs); i += 2 {
		name := attrs[i]
		value := ""
		if i+1 < len(attrs) {
			value = attrs[i+1]
		}

		if terminalValuesMap, ok := sm.attrValueMap[name]; ok {
			if value != "" {
				result = sm.matchTerminal(terminalValuesMap, "", cssSelector, matchedCallback) || result
			}
			result = sm.matchTerminal(terminalValuesMap, value, cssSelector, matchedCallback) || result
		}

		if partialValuesMap, ok := sm.attrValuePartialMap[name]; ok {
			if value != "" {
				result = sm.matchPartial(partialValuesMap, "", cssSelector, matchedCallback) || result
			}
			result = sm.matchPartial(partialValuesMap, value, cssSelector, matchedCallback) || result
		}
	}

	return result
}

func (sm *SelectorMatcher[T]) matchTerminal(map_ map[string][]*SelectorContext[T], name string, cssSelector *CssSelector, matchedCallback MatchCallback[T]) bool {
	if map_ == nil {
		return false
	}
	// name can be "" which is a valid attribute value, element name, or class name

	selectables := map_[name]
	if starSelectables, ok := map_["*"]; ok {
		selectables = append(selectables, starSelectables...)
	}

	if len(selectables) == 0 {
		return false
	}

	result := false
	for _, selectable := range selectables {
		if selectable.Finalize(cssSelector, matchedCallback) {
			result = true
		}
	}
	return result
}

func (sm *SelectorMatcher[T]) matchPartial(map_ map[string]*SelectorMatcher[T], name string, cssSelector *CssSelector, matchedCallback MatchCallback[T]) bool {
	if map_ == nil {
		return false
	}

	nestedSelector, ok := map_[name]
	if !ok {
		return false
	}
	return nestedSelector.Match(cssSelector, matchedCallback)
}

// SelectorListContext tracks a comma-separated selector list so that a
// selectable is reported at most once per Match call.
type SelectorListContext struct {
	AlreadyMatched bool
	Selectors      []*CssSelector
}

// NewSelectorListContext creates a new SelectorListContext
func NewSelectorListContext(selectors []*CssSelector) *SelectorListContext {
	return &SelectorListContext{
		AlreadyMatched: false,
		Selectors:      selectors,
	}
}

// SelectorContext represents a selector context
type SelectorContext[T any] struct {
	Selector     *CssSelector
	CbContext    *T
	ListContext  *SelectorListContext
	NotSelectors []*CssSelector
}

// NewSelectorContext creates a new SelectorContext
func NewSelectorContext[T any](selector *CssSelector, cbContext *T, listContext *SelectorListContext) *SelectorContext[T] {
	return &SelectorContext[T]{
		Selector:     selector,
		CbContext:    cbContext,
		ListContext:  listContext,
		NotSelectors: selector.NotSelectors,
	}
}

// Finalize finalizes the selector match
func (sc *SelectorContext[T]) Finalize(cssSelector *CssSelector, callback MatchCallback[T]) bool {
	result := true
	if len(sc.NotSelectors) > 0 && (sc.ListContext == nil || !sc.ListContext.AlreadyMatched) {
		notMatcher := CreateNotMatcher(sc.NotSelectors)
		var nilCallback MatchCallback[interface{}]
		result = !notMatcher.Match(cssSelector, nilCallback)
	}
	if result && callback != nil && (sc.ListContext == nil || !sc.ListContext.AlreadyMatched) {
		if sc.ListContext != nil {
			sc.ListContext.AlreadyMatched = true
		}
		callback(sc.Selector, sc.CbContext)
	}
	return result
}
