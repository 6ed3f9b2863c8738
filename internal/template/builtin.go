package template

// Names of the built-in templates.
const (
	File      = "file"
	Expr      = "expr"
	Loop      = "loop"
	LoopCount = "loop-count"
)

const fileTemplate = `#{script}`

const exprTemplate = `#{prelude}
fn main() {
    let result = {
#{script}
    };
    println!("{:?}", result);
}
`

const loopTemplate = `#{prelude}
use std::any::Any;
use std::io::prelude::*;

fn main() {
    let mut closure = enforce_closure(
#{script}
    );
    let mut line_buffer = String::new();
    let stdin = std::io::stdin();
    let mut stdin = stdin.lock();
    loop {
        line_buffer.clear();
        let read_res = stdin.read_line(&mut line_buffer).unwrap_or(0);
        if read_res == 0 { break }
        let output = closure(&line_buffer);

        let display = {
            let output_any: &dyn Any = &output;
            !output_any.is::<()>()
        };

        if display {
            println!("{:?}", output);
        }
    }
}

fn enforce_closure<F, T>(closure: F) -> F
where F: FnMut(&str) -> T, T: 'static {
    closure
}
`

const loopCountTemplate = `#{prelude}
use std::any::Any;
use std::io::prelude::*;

fn main() {
    let mut closure = enforce_closure(
#{script}
    );
    let mut line_buffer = String::new();
    let stdin = std::io::stdin();
    let mut stdin = stdin.lock();
    let mut count = 0;
    loop {
        line_buffer.clear();
        let read_res = stdin.read_line(&mut line_buffer).unwrap_or(0);
        if read_res == 0 { break }
        count += 1;
        let output = closure(&line_buffer, count);

        let display = {
            let output_any: &dyn Any = &output;
            !output_any.is::<()>()
        };

        if display {
            println!("{:?}", output);
        }
    }
}

fn enforce_closure<F, T>(closure: F) -> F
where F: FnMut(&str, usize) -> T, T: 'static {
    closure
}
`

var builtins = map[string]string{
	File:      fileTemplate,
	Expr:      exprTemplate,
	Loop:      loopTemplate,
	LoopCount: loopCountTemplate,
}

// Builtin returns the compiled-in text of a template.
func Builtin(name string) (string, bool) {
	t, ok := builtins[name]
	return t, ok
}
