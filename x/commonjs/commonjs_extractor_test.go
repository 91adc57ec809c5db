package commonjs_test

import (
	"testing"

	"github.com/CodMac/go-treesitter-jsdeps/extractor"
	"github.com/CodMac/go-treesitter-jsdeps/model"
	"github.com/CodMac/go-treesitter-jsdeps/parser"
	"github.com/CodMac/go-treesitter-jsdeps/x/commonjs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// extract 以脚本语法解析源码并返回提取到的标识值
func extract(t *testing.T, source string) []string {
	t.Helper()
	specs := extractSpecifiers(t, source)
	return model.Values(specs)
}

func extractSpecifiers(t *testing.T, source string) []model.Specifier {
	t.Helper()

	p, err := parser.NewParser(model.LangJavaScript)
	require.NoError(t, err)
	defer p.Close()

	tree, err := p.Parse([]byte(source), model.Script)
	require.NoError(t, err)
	defer tree.Close()

	specs, err := commonjs.NewCommonJSExtractor().Extract(tree.RootNode(), []byte(source))
	require.NoError(t, err)
	return specs
}

func TestCommonJSExtractor_Registered(t *testing.T) {
	ext, err := extractor.GetExtractor(model.CommonJS)
	require.NoError(t, err)
	assert.IsType(t, &commonjs.Extractor{}, ext)
}

func TestCommonJSExtractor_NestingDepths(t *testing.T) {
	source := `
const a = require("./a");
if (cond) {
  require("./b");
} else if (other) {
  require("./c");
} else {
  require("./d");
}
function load() {
  return require("./e");
}
for (let i = require("./f"); i < require("./g"); i += require("./h")) {
  require("./i");
}
while (require("./j")) { require("./k"); }
for (const k in require("./l")) { require("./m"); }
for (const v of require("./n")) { require("./o"); }
label: { require("./p"); }
`
	assert.Equal(t, []string{
		"./a", "./b", "./c", "./d", "./e",
		"./f", "./g", "./h", "./i",
		"./j", "./k", "./l", "./m", "./n", "./o", "./p",
	}, extract(t, source))
}

func TestCommonJSExtractor_DoWhileSourceOrder(t *testing.T) {
	source := `do { require("./body"); } while (require("./test"));`
	assert.Equal(t, []string{"./body", "./test"}, extract(t, source))
}

func TestCommonJSExtractor_SwitchOrder(t *testing.T) {
	source := `
switch (require("./disc")) {
  case require("./c1"):
    require("./s1");
    break;
  default:
    require("./def");
  case "x":
    require("./s2");
}
switch (y) {
  case 1: require("./only");
}
`
	assert.Equal(t, []string{"./disc", "./c1", "./s1", "./def", "./s2", "./only"}, extract(t, source))
}

func TestCommonJSExtractor_TryCatchFinally(t *testing.T) {
	source := `
try { require("./try"); }
catch (e) { require("./catch"); }
finally { require("./finally"); }
throw require("./throw");
`
	assert.Equal(t, []string{"./try", "./catch", "./finally", "./throw"}, extract(t, source))
}

func TestCommonJSExtractor_Expressions(t *testing.T) {
	source := `
var arr = [require("./arr"), ...require("./spread")];
var obj = {
  key: require("./pair"),
  get g() { return require("./getter"); },
  set s(v) { require("./setter"); },
  m() { require("./method"); },
  ...require("./objspread"),
};
x = require("./assign");
y = require("./left") + require("./right");
z = c ? require("./then") : require("./else");
w = !require("./unary");
u = typeof require("./typeof");
n = new (require("./ctor"))(require("./ctorarg"));
m = require("./member").prop;
s = obj[require("./index")];
f = () => require("./arrow");
g = function () { require("./fexpr"); };
t = ` + "`${require(\"./tmpl\")}`" + `;
function* gen() { yield require("./yield"); yield* require("./delegate"); }
`
	assert.Equal(t, []string{
		"./arr", "./spread",
		"./pair", "./getter", "./setter", "./method", "./objspread",
		"./assign", "./left", "./right", "./then", "./else",
		"./unary", "./typeof", "./ctor", "./ctorarg",
		"./member", "./index", "./arrow", "./fexpr", "./tmpl",
		"./yield", "./delegate",
	}, extract(t, source))
}

func TestCommonJSExtractor_Classes(t *testing.T) {
	source := `
class A extends require("./base") {
  static field = require("./field");
  static { require("./static"); }
  constructor() { super(); require("./ctor"); }
  method() { return require("./method"); }
}
const B = class extends require("./exprbase") {
  get x() { return require("./getter"); }
};
`
	assert.Equal(t, []string{"./base", "./field", "./static", "./ctor", "./method", "./exprbase", "./getter"}, extract(t, source))
}

func TestCommonJSExtractor_NotCaptured(t *testing.T) {
	source := `
require(x);
require("a", "b");
require();
require(` + "`./tpl`" + `);
require` + "`./tagged`" + `;
obj.require("./member");
requireX("./other");
require("./ok" + suffix);
`
	assert.Empty(t, extract(t, source))
}

func TestCommonJSExtractor_ArgumentsStillTraversed(t *testing.T) {
	source := `
require(require("./inner"));
require("a", require("./second"));
foo(require("./arg"));
require(` + "`${require(\"./insub\")}`" + `);
`
	assert.Equal(t, []string{"./inner", "./second", "./arg", "./insub"}, extract(t, source))
}

func TestCommonJSExtractor_StringDecoding(t *testing.T) {
	source := `
require('./single');
require("./esc\x41B\u{43}");
require("./line\
continued");
require(/* comment */ "./commented");
require(("./paren"));
require((("./nested")));
require(("a", "./sequence"));
`
	assert.Equal(t, []string{"./single", "./escABC", "./linecontinued", "./commented", "./paren", "./nested"}, extract(t, source))
}

// 计算属性名与默认参数值不在遍历范围内
func TestCommonJSExtractor_UnwalkedPositions(t *testing.T) {
	source := `
var o = { [require("./key")]: 1 };
function f(a = require("./default")) {}
const { x = require("./destructured") } = o;
`
	assert.Empty(t, extract(t, source))
}

func TestCommonJSExtractor_Duplicates(t *testing.T) {
	assert.Equal(t, []string{"./a", "./a"}, extract(t, `require("./a"); require("./a");`))
}

func TestCommonJSExtractor_Location(t *testing.T) {
	specs := extractSpecifiers(t, "\n  const a = require(\"./a\");\n")
	require.Len(t, specs, 1)
	assert.Equal(t, model.CommonJS, specs[0].System)
	assert.Equal(t, 2, specs[0].Location.StartLine)
	assert.Equal(t, 12, specs[0].Location.StartColumn)
}
