package testutil

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/tvmtools/tvmdbg/internal/evaluator"
)

// Evaluator method names recorded in FakeEvaluator calls.
const (
	MethodEvaluate = "EvaluateToText"
	MethodExecute  = "Execute"
	MethodFields   = "LookupFields"
)

// Call is one recorded evaluator invocation.
type Call struct {
	Method string
	Arg    string
}

// DeleterText renders the deleter of an object allocated as typeName the way
// gdb prints it.
func DeleterText(typeName string) string {
	return fmt.Sprintf("$1 = {void (tvm::runtime::Object *)} 0x55d0c0e2a4b0 "+
		"<tvm::runtime::SimpleObjAllocator::Handler<%s>::Deleter_(tvm::runtime::Object*)>", typeName)
}

// FakeEvaluator is an in-memory evaluator.Evaluator returning canned text.
// Anything not registered fails the way gdb would.
type FakeEvaluator struct {
	mu       sync.Mutex
	texts    map[string]string
	commands map[string]string
	fields   map[string][]string
	failures map[string]error
	output   bytes.Buffer
	calls    []Call
}

var _ evaluator.Evaluator = (*FakeEvaluator)(nil)

// NewFakeEvaluator creates an empty fake.
func NewFakeEvaluator() *FakeEvaluator {
	return &FakeEvaluator{
		texts:    make(map[string]string),
		commands: make(map[string]string),
		fields:   make(map[string][]string),
		failures: make(map[string]error),
	}
}

// WithText makes EvaluateToText(expr) return text.
func (f *FakeEvaluator) WithText(expr, text string) *FakeEvaluator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts[expr] = text
	return f
}

// WithObjectRef registers expr as an ObjectRef whose object was allocated as typeName.
func (f *FakeEvaluator) WithObjectRef(expr, typeName string) *FakeEvaluator {
	return f.WithText("*"+expr+".get().deleter_", DeleterText(typeName))
}

// WithObject registers expr as a raw Object allocated as typeName.
func (f *FakeEvaluator) WithObject(expr, typeName string) *FakeEvaluator {
	return f.WithText("*"+expr+".deleter_", DeleterText(typeName))
}

// WithCommand makes Execute(command) succeed and print output.
func (f *FakeEvaluator) WithCommand(command, output string) *FakeEvaluator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands[command] = output
	return f
}

// WithCommandError makes Execute(command) fail with err instead of the
// evaluation error unknown commands get.
func (f *FakeEvaluator) WithCommandError(command string, err error) *FakeEvaluator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[command] = err
	return f
}

// WithFields makes LookupFields(typeName) return fields.
func (f *FakeEvaluator) WithFields(typeName string, fields ...string) *FakeEvaluator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[typeName] = fields
	return f
}

// EvaluateToText implements evaluator.Evaluator.
func (f *FakeEvaluator) EvaluateToText(_ context.Context, expr string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: MethodEvaluate, Arg: expr})

	text, ok := f.texts[expr]
	if !ok {
		return "", evaluator.EvaluationError(expr, "No symbol in current context.")
	}
	return text, nil
}

// Execute implements evaluator.Evaluator.
func (f *FakeEvaluator) Execute(_ context.Context, command string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: MethodExecute, Arg: command})

	if err, ok := f.failures[command]; ok {
		return err
	}
	out, ok := f.commands[command]
	if !ok {
		return evaluator.EvaluationError(command, "No symbol in current context.")
	}
	f.output.WriteString(out)
	return nil
}

// LookupFields implements evaluator.Evaluator.
func (f *FakeEvaluator) LookupFields(_ context.Context, typeName string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: MethodFields, Arg: typeName})

	fields, ok := f.fields[typeName]
	if !ok {
		return nil, evaluator.TypeLookupError(typeName, nil)
	}
	return append([]string(nil), fields...), nil
}

// TokenizeArguments implements evaluator.Evaluator.
func (f *FakeEvaluator) TokenizeArguments(raw string) ([]string, error) {
	return evaluator.Tokenize(raw)
}

// Calls returns a snapshot of all recorded calls in order.
func (f *FakeEvaluator) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many times method was invoked.
func (f *FakeEvaluator) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Output returns everything successful Execute calls printed.
func (f *FakeEvaluator) Output() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.output.String()
}

// Reset clears recorded calls and output, keeping registered responses.
func (f *FakeEvaluator) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
	f.output.Reset()
}
