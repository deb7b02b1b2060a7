// Package viz draws spring scenes in the terminal and runs the interactive
// lab on Bubble Tea.
//
// A [Renderer] rasterises a scene onto a Braille [Canvas]; [Model] hosts a
// scene screen, steps it every frame and maps keys to user actions.
//
// # Key Bindings
//
//	Tab       - Select next mass
//	Enter     - Grab / release the selected mass
//	Arrows    - Drag the held mass
//	Space     - Play / pause
//	N         - Step one frame while paused
//	S         - Toggle normal / slow speed
//	B         - Cycle gravity body
//	+ / -     - Stiffen / soften the selected spring
//	L / l     - Lengthen / shorten the selected spring
//	D / d     - More / less damping
//	W         - Start / stop the stopwatch
//	U         - Show / hide the ruler
//	F         - Toggle individual / net forces
//	C         - Toggle same / different spring constants
//	T         - Cycle color themes
//	R         - Reset the screen
//	?         - Show help
package viz
