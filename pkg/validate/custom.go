package validate

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
)

// CustomRule is a workspace-defined check evaluated with expr-lang.
// Scope selects the evaluation environment: "table" rules see one table
// per evaluation, "column" rules one column (plus its table). The When
// expression fires the rule when it evaluates to true.
type CustomRule struct {
	Name     string
	Scope    string // table, column
	When     string
	Message  string
	Severity diagnostic.Severity
}

// CompiledRule pairs a rule with its compiled program.
type CompiledRule struct {
	Rule    CustomRule
	program *vm.Program
}

// CompileRules compiles each rule's When expression. A rule that fails to
// compile is returned as an error diagnostic rather than aborting the
// run, matching the never-throw contract of the rule functions.
func CompileRules(rules []CustomRule) ([]CompiledRule, []*diagnostic.Diagnostic) {
	var compiled []CompiledRule
	var diags []*diagnostic.Diagnostic
	for _, r := range rules {
		if r.Scope != "table" && r.Scope != "column" {
			d := diagnostic.New(diagnostic.KindCustomRule, "",
				fmt.Sprintf("custom rule %q has unknown scope %q (use table or column)", r.Name, r.Scope))
			d.Severity = diagnostic.SeverityError
			diags = append(diags, d)
			continue
		}
		p, err := expr.Compile(r.When, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			d := diagnostic.New(diagnostic.KindCustomRule, "",
				fmt.Sprintf("custom rule %q does not compile: %v", r.Name, err))
			d.Severity = diagnostic.SeverityError
			diags = append(diags, d)
			continue
		}
		compiled = append(compiled, CompiledRule{Rule: r, program: p})
	}
	return compiled, diags
}

// RunCustomRules evaluates compiled rules against every table and column
// of a decoded NGSchema document. Rule evaluation errors are swallowed:
// a rule that errors on one element simply does not fire there.
func RunCustomRules(doc map[string]any, rules []CompiledRule) []*diagnostic.Diagnostic {
	if len(rules) == 0 {
		return nil
	}
	tables, _ := doc["tables"].([]any)

	var diags []*diagnostic.Diagnostic
	for i, entry := range tables {
		table, isObj := entry.(map[string]any)
		if !isObj {
			continue
		}
		tablePath := indexPath("tables", i)
		tableEnv := map[string]any{"table": table}
		for _, cr := range rules {
			if cr.Rule.Scope != "table" {
				continue
			}
			if fired, err := runBool(cr.program, tableEnv); err == nil && fired {
				diags = append(diags, customDiagnostic(cr.Rule, tablePath))
			}
		}

		columns, _ := table["columns"].([]any)
		for j, colEntry := range columns {
			col, isObj := colEntry.(map[string]any)
			if !isObj {
				continue
			}
			colPath := indexPath(joinPath(tablePath, "columns"), j)
			colEnv := map[string]any{"table": table, "column": col}
			for _, cr := range rules {
				if cr.Rule.Scope != "column" {
					continue
				}
				if fired, err := runBool(cr.program, colEnv); err == nil && fired {
					diags = append(diags, customDiagnostic(cr.Rule, colPath))
				}
			}
		}
	}
	return diags
}

func runBool(p *vm.Program, env map[string]any) (bool, error) {
	out, err := expr.Run(p, env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("expression did not return bool (got %T)", out)
	}
	return b, nil
}

func customDiagnostic(r CustomRule, path string) *diagnostic.Diagnostic {
	d := diagnostic.New(diagnostic.KindCustomRule, path,
		fmt.Sprintf("%s: %s", r.Name, r.Message))
	if r.Severity != "" {
		d.Severity = r.Severity
	}
	return d
}
