package analysis

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"composelint/internal/compose"
	"composelint/internal/extractor"
	"composelint/internal/syntax"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const defaultCacheSize = 1024

// Analyzer runs the compose rules over extracted files.
// It is safe for concurrent use.
type Analyzer struct {
	provided compose.NameSet
	cache    *lru.Cache[string, []Finding]
	logger   *zap.Logger
}

// NewAnalyzer creates an analyzer. provided extends the built-in content
// emitters; cacheSize bounds the number of memoized files.
func NewAnalyzer(provided []string, cacheSize int, logger *zap.Logger) (*Analyzer, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, []Finding](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		provided: compose.NewNameSet(provided...),
		cache:    cache,
		logger:   logger,
	}, nil
}

// Emitters returns the extra content emitters in lexical order.
func (a *Analyzer) Emitters() []string {
	return a.provided.Sorted()
}

// AnalyzeFile returns the findings for file ordered by line. Results are
// memoized by path and content hash; callers own the returned slice.
func (a *Analyzer) AnalyzeFile(file *extractor.SourceFile) []Finding {
	key := file.Path + "@" + file.Hash
	if cached, ok := a.cache.Get(key); ok {
		a.logger.Debug("cache hit", zap.String("path", file.Path))
		return slices.Clone(cached)
	}

	var findings []Finding
	ev := file.Evaluator()
	for _, fn := range file.Functions {
		findings = append(findings, a.checkModifierMissing(file, fn, ev)...)
		findings = append(findings, a.checkLambdaInEffects(file, fn)...)
	}
	for _, p := range file.Properties {
		findings = append(findings, a.checkCompositionLocal(file, p)...)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Line < findings[j].Line
	})
	for i := range findings {
		findings[i].ID = FindingID(findings[i])
	}

	a.logger.Debug("analyzed file",
		zap.String("path", file.Path),
		zap.Int("functions", len(file.Functions)),
		zap.Int("findings", len(findings)))
	a.cache.Add(key, slices.Clone(findings))
	return findings
}

// EmitsContent exposes the classification used by the rules.
func (a *Analyzer) EmitsContent(fn *syntax.Function) bool {
	return compose.EmitsContent(fn, a.provided)
}

func (a *Analyzer) checkModifierMissing(file *extractor.SourceFile, fn *syntax.Function, ev syntax.TypeEvaluator) []Finding {
	if !fn.Composable || fn.Private || compose.IsModifierReceiver(fn) {
		return nil
	}
	if fn.ReturnType != "" && fn.ReturnType != "Unit" {
		return nil
	}
	if !a.EmitsContent(fn) {
		return nil
	}
	if compose.ResolvedModifierParameter(file.Resolve(fn), ev) != nil {
		return nil
	}
	return []Finding{{
		Path:    file.Path,
		Line:    fn.Line,
		EndLine: fn.EndLine,
		Symbol:  fn.Name,
		Rule:    RuleModifierMissing,
		Message: fmt.Sprintf("%s emits content but has no modifier parameter", fn.Name),
	}}
}

func (a *Analyzer) checkCompositionLocal(file *extractor.SourceFile, p *syntax.Property) []Finding {
	if !compose.DeclaresCompositionLocal(p) && !compose.AccessorDeclaresCompositionLocal(p.Getter) {
		return nil
	}
	return []Finding{{
		Path:    file.Path,
		Line:    p.Line,
		EndLine: p.EndLine,
		Symbol:  p.Name,
		Rule:    RuleCompositionLocalUsage,
		Message: fmt.Sprintf("%s declares a CompositionLocal; prefer explicit parameters", p.Name),
	}}
}

// checkLambdaInEffects flags function-typed parameters used inside the lambda
// of a restartable effect without being one of the effect's keys.
func (a *Analyzer) checkLambdaInEffects(file *extractor.SourceFile, fn *syntax.Function) []Finding {
	if !fn.Composable || fn.Body == nil {
		return nil
	}
	lambdas := compose.NewNameSet()
	for _, p := range fn.Params {
		if isFunctionType(p.Type) {
			lambdas[p.Name] = struct{}{}
		}
	}
	if len(lambdas) == 0 {
		return nil
	}

	var findings []Finding
	reported := compose.NewNameSet()
	walk(fn.Body, func(n syntax.Node) bool {
		call, ok := syntax.AsCall(n)
		if !ok || !compose.IsRestartableEffect(call) {
			return true
		}
		keys := compose.NewNameSet()
		var used []string
		for _, arg := range call.Arguments() {
			if arg.Value == nil {
				continue
			}
			if arg.Value.Kind() == syntax.KindLambda {
				used = append(used, referencedNames(arg.Value)...)
				continue
			}
			for _, name := range referencedNames(arg.Value) {
				keys[name] = struct{}{}
			}
		}
		for _, name := range used {
			if !lambdas.Has(name) || keys.Has(name) || reported.Has(name) {
				continue
			}
			reported[name] = struct{}{}
			findings = append(findings, Finding{
				Path:    file.Path,
				Line:    fn.Line,
				EndLine: fn.EndLine,
				Symbol:  fn.Name + "." + name,
				Rule:    RuleLambdaInRestartableEffect,
				Message: fmt.Sprintf("%s is captured by %s; wrap it in rememberUpdatedState or pass it as a key", name, call.Callee()),
			})
		}
		return true
	})
	return findings
}

func isFunctionType(typeRef string) bool {
	return strings.Contains(typeRef, "->")
}

// referencedNames lists identifiers and callee names under root.
func referencedNames(root syntax.Node) []string {
	var names []string
	walk(root, func(n syntax.Node) bool {
		switch n.Kind() {
		case syntax.KindIdentifier:
			names = append(names, n.Text())
		case syntax.KindCall:
			if call, ok := syntax.AsCall(n); ok && call.Callee() != "" {
				names = append(names, call.Callee())
			}
		}
		return true
	})
	return names
}

// walk visits root and its descendants depth-first. Children of a node are
// skipped when visit returns false.
func walk(root syntax.Node, visit func(syntax.Node) bool) {
	if root == nil {
		return
	}
	stack := []syntax.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || !visit(n) {
			continue
		}
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}
