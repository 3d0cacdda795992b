package main

import (
	"fmt"
	"strings"

	"github.com/Kat-Oli/Purrcraft/config"
	"github.com/Kat-Oli/Purrcraft/input"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var glfwKeyNames = map[string]glfw.Key{
	"space": glfw.KeySpace,
	"up":    glfw.KeyUp,
	"down":  glfw.KeyDown,
	"left":  glfw.KeyLeft,
	"right": glfw.KeyRight,
	"shift": glfw.KeyLeftShift,
	"ctrl":  glfw.KeyLeftControl,
	"tab":   glfw.KeyTab,
	"enter": glfw.KeyEnter,
}

func parseGLFWKey(name string) (glfw.Key, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if k, ok := glfwKeyNames[n]; ok {
		return k, nil
	}
	if len(n) == 1 {
		switch c := n[0]; {
		case c >= 'a' && c <= 'z':
			return glfw.KeyA + glfw.Key(c-'a'), nil
		case c >= '0' && c <= '9':
			return glfw.Key0 + glfw.Key(c-'0'), nil
		}
	}
	return glfw.KeyUnknown, fmt.Errorf("unknown key %q", name)
}

func keyBindings(c config.ControlConfig) (map[glfw.Key]input.Key, error) {
	actions := []struct {
		name string
		key  input.Key
	}{
		{c.Forward, input.Forward},
		{c.Back, input.Back},
		{c.Left, input.Left},
		{c.Right, input.Right},
		{c.Jump, input.Jump},
	}
	bindings := make(map[glfw.Key]input.Key, len(actions))
	for _, a := range actions {
		k, err := parseGLFWKey(a.name)
		if err != nil {
			return nil, fmt.Errorf("controls.%s: %w", a.key, err)
		}
		if prev, taken := bindings[k]; taken {
			return nil, fmt.Errorf("controls.%s: key %q already bound to %s", a.key, a.name, prev)
		}
		bindings[k] = a.key
	}
	return bindings, nil
}

func (a *app) onKey(window *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if k, ok := a.bindings[key]; ok {
		switch action {
		case glfw.Press:
			a.tracker.KeyDown(k, false)
		case glfw.Repeat:
			a.tracker.KeyDown(k, true)
		case glfw.Release:
			a.tracker.KeyUp(k)
		}
		return
	}

	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyF3:
		a.showDebug = !a.showDebug
	case glfw.KeyEscape:
		window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		a.firstMouse = true
	case glfw.KeyF11:
		a.toggleFullscreen(window)
	}
}

func (a *app) onMouseButton(window *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Press && window.GetInputMode(glfw.CursorMode) != glfw.CursorDisabled {
		window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		a.firstMouse = true
	}
}

func (a *app) onMouseMove(window *glfw.Window, xPos, yPos float64) {
	if window.GetInputMode(glfw.CursorMode) != glfw.CursorDisabled {
		return
	}
	if a.firstMouse {
		a.lastX, a.lastY = xPos, yPos
		a.firstMouse = false
		return
	}
	a.tracker.MouseMove(xPos-a.lastX, yPos-a.lastY)
	a.lastX, a.lastY = xPos, yPos
}

func (a *app) onFocus(window *glfw.Window, focused bool) {
	if !focused {
		a.tracker.Release()
	}
}

func (a *app) toggleFullscreen(window *glfw.Window) {
	w, h := a.cfg.Window.Width, a.cfg.Window.Height
	if a.monitor == nil {
		a.monitor = glfw.GetPrimaryMonitor()
		mode := a.monitor.GetVideoMode()
		window.SetMonitor(a.monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
		return
	}
	mode := a.monitor.GetVideoMode()
	a.monitor = nil
	window.SetMonitor(nil, (mode.Width-w)/2, (mode.Height-h)/2, w, h, 0)
}
