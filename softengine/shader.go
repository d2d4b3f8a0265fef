package softengine

import "github.com/hajimehoshi/ebiten/v2"

// Images: 0 is the (already flipped) sprite image, 1 is the frame under the
// sprite, 2 is the stencil mask. Ebitengine uses premultiplied alpha; the
// shader un-premultiplies to classify pixels.
//
// XOR and NXOR treat the display as 1-bit: a pixel is set when its luminance
// is above one half.
const drawModeShaderSrc = `//kage:unit pixels
package main

var Mode float
var UseMask float
var UsePattern float
var Pattern [8]float

func luma(c vec4) float {
	if c.a <= 0 {
		return 0
	}
	rgb := c.rgb / c.a
	return dot(rgb, vec3(0.299, 0.587, 0.114))
}

func patternBit(dst vec2) float {
	px := mod(floor(dst.x), 8)
	py := mod(floor(dst.y), 8)
	row := 0.0
	for i := 0; i < 8; i++ {
		if float(i) == py {
			row = Pattern[i]
		}
	}
	return mod(floor(row/exp2(7-px)), 2)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		discard()
	}
	if UseMask > 0 && imageSrc2At(src).a == 0 {
		discard()
	}
	if UsePattern > 0 && patternBit(dst.xy) == 0 {
		discard()
	}

	l := luma(c)
	if Mode == 1 && l > 0.99 {
		discard()
	}
	if Mode == 2 && l < 0.01 {
		discard()
	}
	if Mode == 3 {
		return vec4(c.a)
	}
	if Mode == 4 {
		return vec4(0, 0, 0, c.a)
	}
	if Mode == 5 || Mode == 6 {
		set := step(0.5, l)
		under := step(0.5, luma(imageSrc1At(src)))
		v := abs(set - under)
		if Mode == 6 {
			v = 1 - v
		}
		return vec4(v, v, v, 1)
	}
	if Mode == 7 {
		rgb := c.rgb / c.a
		return vec4((1-rgb)*c.a, c.a)
	}
	return c
}
`

// drawUniforms keeps the uniform map and its backing storage between draws.
type drawUniforms struct {
	mode, useMask, usePattern float32
	pattern                   [8]float32
	m                         map[string]any
}

func (u *drawUniforms) values() map[string]any {
	if u.m == nil {
		u.m = make(map[string]any, 4)
	}
	u.m["Mode"] = u.mode
	u.m["UseMask"] = u.useMask
	u.m["UsePattern"] = u.usePattern
	u.m["Pattern"] = u.pattern[:]
	return u.m
}

// Compiled lazily; the engine is single-threaded.
var drawModeShader *ebiten.Shader

func ensureDrawModeShader() *ebiten.Shader {
	if drawModeShader == nil {
		s, err := ebiten.NewShader([]byte(drawModeShaderSrc))
		if err != nil {
			panic("softengine: failed to compile draw mode shader: " + err.Error())
		}
		drawModeShader = s
	}
	return drawModeShader
}
