package asset

// DefaultKeymap binds keys to board actions
// [runes] keys are single characters or "space", [keys] are tcell key names
const DefaultKeymap = `
[runes]
q = "quit"
h = "focus_left"
l = "focus_right"
a = "add_block"
space = "add_block"
x = "remove_top"
"+" = "increment"
k = "increment"
"-" = "decrement"
j = "decrement"
"<" = "answer_less"
"=" = "answer_equal"
">" = "answer_more"
t = "toggle_lines"
m = "tutorial_mute"

[keys]
"ctrl-c" = "quit"
"ctrl-s" = "toggle_mute"
left = "focus_left"
right = "focus_right"
tab = "focus_toggle"
up = "increment"
down = "decrement"
backspace2 = "remove_top"
enter = "tutorial_next"
`
