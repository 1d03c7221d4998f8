package vanilla

import (
	"fmt"
	"html"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Script describes a JavaScript dependency emitted once per page.
type Script struct {
	Src    string
	Type   string
	Inline string
	Async  bool
	Defer  bool
	Module bool
}

// AssetSet bundles the stylesheets and scripts a field type needs.
type AssetSet struct {
	Stylesheets []string
	Scripts     []Script
}

// AssetRegistry maps field type tags to their asset dependencies.
type AssetRegistry struct {
	mu   sync.RWMutex
	sets map[string]AssetSet
}

// NewAssetRegistry creates an empty registry.
func NewAssetRegistry() *AssetRegistry {
	return &AssetRegistry{sets: make(map[string]AssetSet)}
}

// Register associates assets with tag, replacing any previous entry.
func (r *AssetRegistry) Register(tag string, set AssetSet) error {
	if tag = normalize(tag); tag == "" {
		return fmt.Errorf("vanilla: asset tag is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[tag] = cloneAssetSet(set)
	return nil
}

// Lookup returns the assets registered for tag.
func (r *AssetRegistry) Lookup(tag string) (AssetSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.sets[normalize(tag)]
	if !ok {
		return AssetSet{}, false
	}
	return cloneAssetSet(set), true
}

// Tags returns the registered tags sorted.
func (r *AssetRegistry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.sets))
	for tag := range r.sets {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Assets aggregates the dependencies of tags, keeping first occurrences.
func (r *AssetRegistry) Assets(tags []string) (stylesheets []string, scripts []Script) {
	if len(tags) == 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seenStyles := make(map[string]struct{})
	seenScripts := make(map[string]struct{})

	for _, tag := range tags {
		set, ok := r.sets[normalize(tag)]
		if !ok {
			continue
		}
		for _, href := range set.Stylesheets {
			if href == "" {
				continue
			}
			if _, exists := seenStyles[href]; exists {
				continue
			}
			seenStyles[href] = struct{}{}
			stylesheets = append(stylesheets, href)
		}
		for _, script := range set.Scripts {
			key := scriptKey(script)
			if _, exists := seenScripts[key]; exists {
				continue
			}
			seenScripts[key] = struct{}{}
			scripts = append(scripts, script)
		}
	}
	return stylesheets, scripts
}

// AssetTags renders link and script elements for the given stylesheets and
// scripts, resolving sources through resolve when it is non-nil.
func AssetTags(stylesheets []string, scripts []Script, resolve func(string) string) string {
	var b strings.Builder
	for _, href := range stylesheets {
		b.WriteString(`<link rel="stylesheet" href="`)
		b.WriteString(html.EscapeString(resolveAsset(href, resolve)))
		b.WriteString(`">`)
	}
	for _, script := range scripts {
		attrs := NewAttrs()
		if script.Src != "" {
			attrs.Set("src", resolveAsset(script.Src, resolve))
		}
		switch {
		case script.Module:
			attrs.Set("type", "module")
		case script.Type != "":
			attrs.Set("type", script.Type)
		}
		if script.Async {
			attrs.Flag("async")
		}
		if script.Defer {
			attrs.Flag("defer")
		}
		b.WriteString("<script")
		b.WriteString(attrs.String())
		b.WriteString(">")
		if script.Src == "" {
			b.WriteString(script.Inline)
		}
		b.WriteString("</script>")
	}
	return b.String()
}

func resolveAsset(src string, resolve func(string) string) string {
	if resolve == nil {
		return src
	}
	if resolved := resolve(src); resolved != "" {
		return resolved
	}
	return src
}

func cloneAssetSet(src AssetSet) AssetSet {
	return AssetSet{
		Stylesheets: slices.Clone(src.Stylesheets),
		Scripts:     slices.Clone(src.Scripts),
	}
}

func scriptKey(script Script) string {
	if script.Src != "" {
		return "src:" + script.Src
	}
	return "inline:" + script.Inline
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
