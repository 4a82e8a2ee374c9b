// Package languages 管理方法长度检测支持的语言配置。
// 每种语言提供自己的文件后缀、声明定位器和字面量遮蔽状态机。
package languages

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"codegate/internal/detect"
)

// Language 定义单语言配置接口。
// 每种语言必须有独立实现文件，且独立维护自己的状态机规则。
type Language interface {
	// ID 返回命令行使用的短标识（例如 csharp、java）。
	ID() string
	// Name 返回语言名称（例如 C#、Java）。
	Name() string
	// Extensions 返回该语言支持的后缀列表（包含点号，如 .cs）。
	Extensions() []string
	// Locator 返回该语言的声明定位器。
	Locator() detect.Locator
	// Mask 把注释和字符串字面量内容替换为空格，保持字节长度与换行不变。
	Mask(text string) string
}

// LanguageDescriptor 用于对外展示语言及后缀信息。
type LanguageDescriptor struct {
	ID         string
	Name       string
	Extensions []string
}

// Registry 管理语言注册与后缀映射。
type Registry struct {
	languages     []Language
	languageByExt map[string]Language
	languageByID  map[string]Language
}

// NewRegistry 创建并注册所有内置语言。
func NewRegistry() *Registry {
	return newRegistry(
		NewCSharp(),
		NewJava(),
		NewGo(),
	)
}

func newRegistry(languages ...Language) *Registry {
	registry := &Registry{
		languages:     languages,
		languageByExt: make(map[string]Language),
		languageByID:  make(map[string]Language),
	}

	for _, language := range languages {
		registry.languageByID[strings.ToLower(language.ID())] = language
		for _, ext := range language.Extensions() {
			registry.languageByExt[strings.ToLower(ext)] = language
		}
	}

	return registry
}

// LanguageForFile 根据文件后缀查找语言。
func (r *Registry) LanguageForFile(path string) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	language, ok := r.languageByExt[ext]
	return language, ok
}

// Lookup 按短标识查找语言，不区分大小写。
func (r *Registry) Lookup(id string) (Language, bool) {
	language, ok := r.languageByID[strings.ToLower(strings.TrimSpace(id))]
	return language, ok
}

// Select 按短标识挑选一组语言，并返回只包含这些语言的新注册中心。
func (r *Registry) Select(ids []string) (*Registry, error) {
	selected := make([]Language, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		language, ok := r.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("unsupported language %q, run \"codegate language\" for the list", id)
		}
		if _, exists := seen[language.ID()]; exists {
			continue
		}
		seen[language.ID()] = struct{}{}
		selected = append(selected, language)
	}

	return newRegistry(selected...), nil
}

// Languages 返回已注册语言清单。
func (r *Registry) Languages() []LanguageDescriptor {
	result := make([]LanguageDescriptor, 0, len(r.languages))
	for _, language := range r.languages {
		extensions := append([]string(nil), language.Extensions()...)
		sort.Strings(extensions)
		result = append(result, LanguageDescriptor{
			ID:         language.ID(),
			Name:       language.Name(),
			Extensions: extensions,
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}
