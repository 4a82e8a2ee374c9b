package languages

import (
	"go/ast"
	"go/parser"
	"go/token"
	"iter"

	"codegate/internal/detect"
	"codegate/internal/model"

	"golang.org/x/tools/go/ast/inspector"
)

// Go 是 Go 语言配置。
// Go 没有 class/record 关键字，正则模式无法识别 `type X struct`，
// 因此改用语法树后端定位声明；方法体边界仍由括号配对决定。
type Go struct {
	locator GoLocator
}

// NewGo 创建 Go 配置。
func NewGo() *Go {
	return &Go{}
}

// ID 返回命令行短标识。
func (l *Go) ID() string {
	return "go"
}

// Name 返回语言名称。
func (l *Go) Name() string {
	return "Go"
}

// Extensions 返回 Go 文件后缀。
func (l *Go) Extensions() []string {
	return []string{".go"}
}

// Locator 返回语法树定位器。
func (l *Go) Locator() detect.Locator {
	return l.locator
}

// Mask 遮蔽注释、字符串、rune 字面量与原始字符串。
// 字面量保留引号，遮蔽后的文本仍然可以被 go/parser 解析。
func (l *Go) Mask(text string) string {
	return maskText(text, maskRules{
		lineComment:  true,
		blockComment: true,
		rawStrings:   true,
	})
}

// GoLocator 基于 go/parser 和 ast/inspector 定位 Go 声明。
// 解析失败时使用解析器恢复出的部分语法树，能找到多少就产出多少。
type GoLocator struct{}

var (
	typeSpecFilter = []ast.Node{(*ast.TypeSpec)(nil)}
	funcDeclFilter = []ast.Node{(*ast.FuncDecl)(nil)}
)

// Types 产出 struct 与 interface 类型声明。
func (GoLocator) Types(text string) iter.Seq[model.TypeDeclaration] {
	return func(yield func(model.TypeDeclaration) bool) {
		fset, file := parseGoSource(text)
		if file == nil {
			return
		}

		stopped := false
		inspector.New([]*ast.File{file}).Preorder(typeSpecFilter, func(node ast.Node) {
			if stopped {
				return
			}
			spec := node.(*ast.TypeSpec)

			var kind model.TypeKind
			switch spec.Type.(type) {
			case *ast.StructType:
				kind = model.KindStruct
			case *ast.InterfaceType:
				kind = model.KindInterface
			default:
				return
			}

			declaration := model.TypeDeclaration{
				Kind:   kind,
				Name:   spec.Name.Name,
				Offset: fset.Position(spec.Pos()).Offset,
			}
			if !yield(declaration) {
				stopped = true
			}
		})
	}
}

// Methods 产出带函数体的函数与方法声明，并附带函数体 `{` 位置和接收者类型。
// 没有接收者的函数标记为 Free，不归属到任何类型。
func (GoLocator) Methods(text string) iter.Seq[model.MethodDeclaration] {
	return func(yield func(model.MethodDeclaration) bool) {
		fset, file := parseGoSource(text)
		if file == nil {
			return
		}

		stopped := false
		inspector.New([]*ast.File{file}).Preorder(funcDeclFilter, func(node ast.Node) {
			if stopped {
				return
			}
			decl := node.(*ast.FuncDecl)
			if decl.Body == nil || !decl.Body.Lbrace.IsValid() {
				return
			}

			declaration := model.MethodDeclaration{
				Qualifiers: "func",
				Name:       decl.Name.Name,
				Offset:     fset.Position(decl.Pos()).Offset,
				BodyStart:  fset.Position(decl.Body.Lbrace).Offset,
				Free:       true,
			}
			if decl.Recv != nil && len(decl.Recv.List) > 0 {
				declaration.Qualifiers = "method"
				declaration.Receiver = receiverTypeName(decl.Recv.List[0].Type)
				declaration.Free = declaration.Receiver == ""
			}
			if !yield(declaration) {
				stopped = true
			}
		})
	}
}

func parseGoSource(text string) (*token.FileSet, *ast.File) {
	fset := token.NewFileSet()
	// 解析出错时 file 仍可能包含部分声明，这里有意忽略错误。
	file, _ := parser.ParseFile(fset, "", text, parser.SkipObjectResolution)
	return fset, file
}

// receiverTypeName 去掉指针与类型参数，只保留接收者的类型名。
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	case *ast.ParenExpr:
		return receiverTypeName(t.X)
	default:
		return ""
	}
}
