package engine

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"terminal-chat/internal/domain"
)

var (
	errNotArithmetic  = errors.New("not an arithmetic expression")
	errDivisionByZero = errors.New("division by zero")

	expressionRun = regexp.MustCompile(`[\d.()+\-*/ ]+`)
	operatorWords = strings.NewReplacer(
		"multiplied by", "*",
		"divided by", "/",
		"plus", "+",
		"minus", "-",
		"times", "*",
	)
)

// mathAdapter resuelve aritmética simple con precisión exacta.
type mathAdapter struct{}

func (mathAdapter) Name() string { return AdapterMath }

func (mathAdapter) CanProcess(input domain.Statement) bool {
	_, _, err := evaluateText(input.Text)
	return err == nil
}

func (mathAdapter) Process(_ context.Context, input domain.Statement) (domain.Statement, error) {
	expr, value, err := evaluateText(input.Text)
	if err != nil {
		return domain.Statement{}, nil
	}
	return domain.Statement{
		Text:         fmt.Sprintf("%s = %s", expr, value),
		InResponseTo: input.Text,
		Conversation: input.Conversation,
		Confidence:   1,
	}, nil
}

// evaluateText busca la expresión más larga del texto que sea una operación binaria válida.
func evaluateText(text string) (string, string, error) {
	lowered := operatorWords.Replace(strings.ToLower(text))
	candidates := expressionRun.FindAllString(lowered, -1)
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(strings.TrimSpace(candidates[i])) > len(strings.TrimSpace(candidates[j]))
	})

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		node, err := parser.ParseExpr(c)
		if err != nil || !isBinary(node) {
			continue
		}
		v, err := evalNode(node)
		if err != nil {
			continue
		}
		return formatNode(node), formatValue(v), nil
	}
	return "", "", errNotArithmetic
}

func isBinary(e ast.Expr) bool {
	for {
		switch n := e.(type) {
		case *ast.ParenExpr:
			e = n.X
		case *ast.BinaryExpr:
			return true
		default:
			return false
		}
	}
}

func evalNode(e ast.Expr) (constant.Value, error) {
	switch n := e.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return nil, errNotArithmetic
		}
		// "01" es octal en Go y suele venir de fechas u horas, no de cuentas.
		if n.Kind == token.INT && len(n.Value) > 1 && n.Value[0] == '0' {
			return nil, errNotArithmetic
		}
		v := constant.MakeFromLiteral(n.Value, n.Kind, 0)
		if v.Kind() == constant.Unknown {
			return nil, errNotArithmetic
		}
		return v, nil
	case *ast.ParenExpr:
		return evalNode(n.X)
	case *ast.UnaryExpr:
		if n.Op != token.ADD && n.Op != token.SUB {
			return nil, errNotArithmetic
		}
		x, err := evalNode(n.X)
		if err != nil {
			return nil, err
		}
		return constant.UnaryOp(n.Op, x, 0), nil
	case *ast.BinaryExpr:
		switch n.Op {
		case token.ADD, token.SUB, token.MUL, token.QUO:
		default:
			return nil, errNotArithmetic
		}
		x, err := evalNode(n.X)
		if err != nil {
			return nil, err
		}
		y, err := evalNode(n.Y)
		if err != nil {
			return nil, err
		}
		if n.Op == token.QUO && constant.Sign(y) == 0 {
			return nil, errDivisionByZero
		}
		return constant.BinaryOp(x, n.Op, y), nil
	default:
		return nil, errNotArithmetic
	}
}

func formatNode(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.BasicLit:
		return n.Value
	case *ast.ParenExpr:
		return "(" + formatNode(n.X) + ")"
	case *ast.UnaryExpr:
		return n.Op.String() + formatNode(n.X)
	case *ast.BinaryExpr:
		return formatNode(n.X) + " " + n.Op.String() + " " + formatNode(n.Y)
	default:
		return ""
	}
}

func formatValue(v constant.Value) string {
	if v.Kind() == constant.Int {
		return v.ExactString()
	}
	f, _ := constant.Float64Val(v)
	return strconv.FormatFloat(f, 'f', -1, 64)
}
