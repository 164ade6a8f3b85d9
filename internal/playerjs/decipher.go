package playerjs

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

var (
	ErrSignatureOpsNotFound = errors.New("signature operations not found in player js")
	ErrNFunctionNotFound    = errors.New("n-function not found in player js")
	ErrTimestampNotFound    = errors.New("signature timestamp not found in player js")
)

// Decipherer applies one player's signature and n transforms. The parsed
// operations and the goja runtime are built lazily and reused; the runtime
// is not goroutine-safe, so calls into it are serialized.
type Decipherer struct {
	js []byte

	opsOnce sync.Once
	ops     []operation
	opsErr  error

	vmOnce sync.Once
	vmErr  error
	vmMu   sync.Mutex
	vm     *goja.Runtime
	sigFn  func(string) string
	nFn    func(string) string

	memoMu sync.Mutex
	nMemo  map[string]string
}

func NewDecipherer(jsBody string) *Decipherer {
	return &Decipherer{
		js:    []byte(jsBody),
		nMemo: make(map[string]string),
	}
}

// SignatureTimestamp returns the sts value embedded in the player.
func (d *Decipherer) SignatureTimestamp() (int, error) {
	m := signatureTimestampPattern.FindSubmatch(d.js)
	if len(m) < 2 {
		return 0, ErrTimestampNotFound
	}
	return strconv.Atoi(string(m[1]))
}

// DecipherSignature deciphers a cipher's "s" value. The operation table is
// tried first; the goja runtime is the fallback.
func (d *Decipherer) DecipherSignature(s string) (string, error) {
	d.opsOnce.Do(func() {
		d.ops, d.opsErr = parseOperations(d.js)
	})
	if d.opsErr == nil {
		bs := []byte(s)
		for _, op := range d.ops {
			bs = op(bs)
		}
		return string(bs), nil
	}

	if err := d.loadRuntime(); err != nil || d.sigFn == nil {
		return "", d.opsErr
	}
	d.vmMu.Lock()
	defer d.vmMu.Unlock()
	return callJS(d.sigFn, s)
}

// DecipherN transforms the throttling "n" parameter.
func (d *Decipherer) DecipherN(n string) (string, error) {
	d.memoMu.Lock()
	if out, ok := d.nMemo[n]; ok {
		d.memoMu.Unlock()
		return out, nil
	}
	d.memoMu.Unlock()

	if err := d.loadRuntime(); err != nil {
		return "", err
	}
	if d.nFn == nil {
		return "", ErrNFunctionNotFound
	}
	d.vmMu.Lock()
	out, err := callJS(d.nFn, n)
	d.vmMu.Unlock()
	if err != nil {
		return "", err
	}

	d.memoMu.Lock()
	d.nMemo[n] = out
	d.memoMu.Unlock()
	return out, nil
}

func (d *Decipherer) loadRuntime() error {
	d.vmOnce.Do(func() {
		d.vmErr = d.buildRuntime()
	})
	return d.vmErr
}

// buildRuntime evaluates only the extracted functions, never the whole
// player, so no browser globals are needed.
func (d *Decipherer) buildRuntime() error {
	vm := goja.New()
	var loaded bool

	if objSrc, fnSrc, ok := signatureSources(d.js); ok {
		if _, err := vm.RunString(objSrc + ";var ytstreamSig=" + fnSrc + ";"); err == nil {
			if err := vm.ExportTo(vm.Get("ytstreamSig"), &d.sigFn); err == nil {
				loaded = true
			}
		}
	}

	if nSrc, err := d.nFunctionSource(); err == nil {
		if _, err := vm.RunString("var ytstreamN=" + nSrc + ";"); err == nil {
			if err := vm.ExportTo(vm.Get("ytstreamN"), &d.nFn); err == nil {
				loaded = true
			}
		}
	}

	if !loaded {
		return fmt.Errorf("%w: no evaluable decipher functions", ErrNFunctionNotFound)
	}
	d.vm = vm
	return nil
}

// callJS converts a goja panic (thrown JS exception) into an error.
func callJS(fn func(string) string, arg string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("player js threw: %v", r)
		}
	}()
	return fn(arg), nil
}

type operation func([]byte) []byte

const (
	jsVar      = `[a-zA-Z_\$][a-zA-Z_0-9\$]*`
	reverseDef = `:function\(a\)\{(?:return )?a\.reverse\(\)\}`
	spliceDef  = `:function\(a,b\)\{a\.splice\(0,b\)\}`
	swapDef    = `:function\(a,b\)\{var c=a\[0\];a\[0\]=a\[b(?:%a\.length)?\];a\[b(?:%a\.length)?\]=c(?:;return a)?\}`
)

var (
	signatureTimestampPattern = regexp.MustCompile(`(?:signatureTimestamp|sts)\s*:\s*(\d{5})`)

	helperObjectPattern = regexp.MustCompile(fmt.Sprintf(
		`(?:var|let|const)\s+(%[1]s)=\{((?:(?:%[1]s%[2]s|%[1]s%[3]s|%[1]s%[4]s),?\n?)+)\}\s*;?`,
		jsVar, swapDef, spliceDef, reverseDef))
	reverseKeyPattern = regexp.MustCompile(fmt.Sprintf(`(?m)(?:^|,)(%s)%s`, jsVar, reverseDef))
	spliceKeyPattern  = regexp.MustCompile(fmt.Sprintf(`(?m)(?:^|,)(%s)%s`, jsVar, spliceDef))
	swapKeyPattern    = regexp.MustCompile(fmt.Sprintf(`(?m)(?:^|,)(%s)%s`, jsVar, swapDef))

	// Both "function XX(a){...}" and "XX=function(a){...}" declarations.
	signatureFuncPatterns = []*regexp.Regexp{
		regexp.MustCompile(fmt.Sprintf(
			`function(?:\s+%[1]s)?\(a\)\{a=a\.split\([^\)]*\);\s*((?:(?:a=)?%[1]s(?:\.%[1]s|\[[^\]]+\])\(a,\d+\);?\s*)+)return a\.join\([^\)]*\)\}`,
			jsVar)),
		regexp.MustCompile(fmt.Sprintf(
			`%[1]s\s*=\s*function\(a\)\{a=a\.split\([^\)]*\);\s*((?:(?:a=)?%[1]s(?:\.%[1]s|\[[^\]]+\])\(a,\d+\);?\s*)+)return a\.join\([^\)]*\)\}`,
			jsVar)),
	}

	nFunctionNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\.get\("n"\)\)&&\(b=([a-zA-Z0-9$]{0,3})\[(\d+)\](.+)\|\|([a-zA-Z0-9]{0,3})`),
		regexp.MustCompile(`\.get\("n"\)\)\s*&&\s*\(b=([a-zA-Z0-9$]{1,})\[(\d+)\]\([a-zA-Z0-9$]{1,}\).+\|\|([a-zA-Z0-9$]{1,})`),
		regexp.MustCompile(`\.get\("n"\)\)\s*&&\s*\(b=([a-zA-Z0-9$]{1,})\([a-zA-Z0-9$]{1,}\)`),
		regexp.MustCompile(`\.get\("n"\).*?&&.*?([a-zA-Z0-9$]{1,})\([a-zA-Z0-9$]{1,}\)`),
	}
)

func findSignatureFunc(js []byte) (whole, body []byte) {
	for _, re := range signatureFuncPatterns {
		if m := re.FindSubmatch(js); len(m) > 1 {
			return m[0], m[1]
		}
	}
	return nil, nil
}

// signatureSources returns the helper object and the signature function as
// standalone JS expressions.
func signatureSources(js []byte) (string, string, bool) {
	obj := helperObjectPattern.Find(js)
	whole, _ := findSignatureFunc(js)
	if obj == nil || whole == nil {
		return "", "", false
	}
	fn := string(whole)
	if i := strings.Index(fn, "function"); i > 0 {
		fn = fn[i:]
	}
	return string(obj), fn, true
}

func parseOperations(js []byte) ([]operation, error) {
	obj := helperObjectPattern.FindSubmatch(js)
	_, body := findSignatureFunc(js)
	if len(obj) < 3 || len(body) == 0 {
		return nil, ErrSignatureOpsNotFound
	}
	objName, objBody := obj[1], obj[2]

	key := func(re *regexp.Regexp) string {
		if m := re.FindSubmatch(objBody); len(m) > 1 {
			return string(m[1])
		}
		return ""
	}
	reverseKey, spliceKey, swapKey := key(reverseKeyPattern), key(spliceKeyPattern), key(swapKeyPattern)

	keys := strings.Join([]string{
		regexp.QuoteMeta(reverseKey),
		regexp.QuoteMeta(spliceKey),
		regexp.QuoteMeta(swapKey),
	}, "|")
	callPattern, err := regexp.Compile(fmt.Sprintf(
		`(?:a=)?%s(?:\.(%s)|\[(?:"(%s)"|'(%s)')\])\(a,(\d+)\)`,
		regexp.QuoteMeta(string(objName)), keys, keys, keys))
	if err != nil {
		return nil, err
	}

	var ops []operation
	for _, m := range callPattern.FindAllSubmatch(body, -1) {
		name := string(bytes.Join([][]byte{m[1], m[2], m[3]}, nil))
		arg, _ := strconv.Atoi(string(m[4]))
		switch name {
		case reverseKey:
			ops = append(ops, reverseOp)
		case spliceKey:
			ops = append(ops, spliceOp(arg))
		case swapKey:
			ops = append(ops, swapOp(arg))
		}
	}
	if len(ops) == 0 {
		return nil, ErrSignatureOpsNotFound
	}
	return ops, nil
}

func (d *Decipherer) nFunctionSource() (string, error) {
	for _, re := range nFunctionNamePatterns {
		m := re.FindSubmatch(d.js)
		if m == nil {
			continue
		}
		name := string(m[1])
		// b=XY[0](b): XY is a one-element array; the "||" alternative names
		// the function itself.
		if len(m) >= 4 && string(m[2]) == "0" {
			name = string(m[len(m)-1])
		}
		return extractFunction(d.js, name)
	}
	return "", ErrNFunctionNotFound
}

// extractFunction copies a named function definition out of the player by
// matching braces, skipping braces inside string literals.
func extractFunction(js []byte, name string) (string, error) {
	name = strings.TrimSpace(name)
	start := -1
	for _, def := range []string{name + "=function(", name + " = function(", "function " + name + "("} {
		if start = bytes.Index(js, []byte(def)); start >= 0 {
			break
		}
	}
	if start < 0 {
		return "", ErrNFunctionNotFound
	}
	open := bytes.IndexByte(js[start:], '{')
	if open < 0 {
		return "", ErrNFunctionNotFound
	}

	pos := start + open + 1
	depth := 1
	var quote byte
	for ; depth > 0; pos++ {
		if pos >= len(js) {
			return "", fmt.Errorf("%w: unterminated body of %s", ErrNFunctionNotFound, name)
		}
		switch c := js[pos]; c {
		case '{', '}':
			if quote != 0 {
				continue
			}
			if c == '{' {
				depth++
			} else {
				depth--
			}
		case '`', '"', '\'':
			if js[pos-1] == '\\' && (pos < 2 || js[pos-2] != '\\') {
				continue
			}
			switch quote {
			case 0:
				quote = c
			case c:
				quote = 0
			}
		}
	}

	src := string(js[start:pos])
	if i := strings.Index(src, "function"); i > 0 {
		src = src[i:]
	}
	return src, nil
}
