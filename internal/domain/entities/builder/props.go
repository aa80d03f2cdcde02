package builder

import (
	"fmt"
	"strings"
)

// Props is a free-form property bag used for module content, settings and design.
//
// Responsive and interactive variants share one bag and are encoded in the key:
//
//	base[_state][_device]
//
// where state is hover, active or focus (normal has no suffix) and device is
// tablet or mobile (desktop has no suffix). "color_hover_tablet" is the tablet
// hover variant of "color".
type Props map[string]any

// State is an interaction state a style can vary by.
type State string

const (
	StateNormal State = ""
	StateHover  State = "hover"
	StateActive State = "active"
	StateFocus  State = "focus"
)

// Device is a responsive breakpoint a setting can vary by.
type Device string

const (
	DeviceDesktop Device = ""
	DeviceTablet  Device = "tablet"
	DeviceMobile  Device = "mobile"
)

// ParseState accepts "", "normal", "hover", "active" and "focus".
func ParseState(s string) (State, error) {
	switch strings.ToLower(s) {
	case "", "normal":
		return StateNormal, nil
	case "hover":
		return StateHover, nil
	case "active":
		return StateActive, nil
	case "focus":
		return StateFocus, nil
	}
	return StateNormal, fmt.Errorf("unknown state %q", s)
}

// ParseDevice accepts "", "desktop", "tablet" and "mobile".
func ParseDevice(s string) (Device, error) {
	switch strings.ToLower(s) {
	case "", "desktop":
		return DeviceDesktop, nil
	case "tablet":
		return DeviceTablet, nil
	case "mobile":
		return DeviceMobile, nil
	}
	return DeviceDesktop, fmt.Errorf("unknown device %q", s)
}

// PropKey builds the storage key for a base property in a state on a device.
func PropKey(base string, state State, device Device) string {
	key := base
	if state != StateNormal {
		key += "_" + string(state)
	}
	if device != DeviceDesktop {
		key += "_" + string(device)
	}
	return key
}

// SplitPropKey reverses PropKey. Keys without recognised suffixes are returned
// unchanged as the base.
func SplitPropKey(key string) (string, State, Device) {
	base, device := key, DeviceDesktop
	for _, d := range []Device{DeviceTablet, DeviceMobile} {
		if suffix := "_" + string(d); strings.HasSuffix(base, suffix) && len(base) > len(suffix) {
			base, device = strings.TrimSuffix(base, suffix), d
			break
		}
	}
	state := StateNormal
	for _, s := range []State{StateHover, StateActive, StateFocus} {
		if suffix := "_" + string(s); strings.HasSuffix(base, suffix) && len(base) > len(suffix) {
			base, state = strings.TrimSuffix(base, suffix), s
			break
		}
	}
	return base, state, device
}

// deviceChain lists the breakpoints consulted for a device, narrowest first.
func deviceChain(device Device) []Device {
	switch device {
	case DeviceMobile:
		return []Device{DeviceMobile, DeviceTablet, DeviceDesktop}
	case DeviceTablet:
		return []Device{DeviceTablet, DeviceDesktop}
	default:
		return []Device{DeviceDesktop}
	}
}

// Resolve looks up base for the given state and device. Missing variants fall
// back through the wider devices first, then through the same chain for the
// normal state.
func (p Props) Resolve(base string, state State, device Device) (any, bool) {
	states := []State{state}
	if state != StateNormal {
		states = append(states, StateNormal)
	}
	for _, s := range states {
		for _, d := range deviceChain(device) {
			if v, ok := p[PropKey(base, s, d)]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// Set stores value under the variant key for state and device.
func (p Props) Set(base string, state State, device Device, value any) {
	p[PropKey(base, state, device)] = value
}

// Unset removes the variant key for state and device.
func (p Props) Unset(base string, state State, device Device) {
	delete(p, PropKey(base, state, device))
}

// String returns the value at key when it is a string.
func (p Props) String(key string) string {
	s, _ := p[key].(string)
	return s
}

const elementsKey = "elements"

// ElementStyle returns the style map for a sub-element in a state, read from
// design.elements[element][state]. The normal style is used when the state has
// none of its own.
func ElementStyle(design Props, element string, state State) map[string]any {
	elements := asMap(design[elementsKey])
	if elements == nil {
		return nil
	}
	states := asMap(elements[element])
	if states == nil {
		return nil
	}
	if style := asMap(states[stateName(state)]); style != nil {
		return style
	}
	return asMap(states[stateName(StateNormal)])
}

// SetElementStyle writes one style property for a sub-element in a state,
// creating the intermediate maps as needed.
func SetElementStyle(design Props, element string, state State, key string, value any) {
	elements := asMap(design[elementsKey])
	if elements == nil {
		elements = map[string]any{}
		design[elementsKey] = elements
	}
	states := asMap(elements[element])
	if states == nil {
		states = map[string]any{}
		elements[element] = states
	}
	style := asMap(states[stateName(state)])
	if style == nil {
		style = map[string]any{}
		states[stateName(state)] = style
	}
	style[key] = value
}

func stateName(state State) string {
	if state == StateNormal {
		return "normal"
	}
	return string(state)
}

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case Props:
		return m
	}
	return nil
}
