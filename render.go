/*
 * Copyright © 2020, G.Ralph Kuntz, MD.
 *
 * Licensed under the Apache License, Version 2.0(the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIC
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package qrgen

import (
	"fmt"
	"strings"
)

// String renders the symbol as terminal art, one module per character.
func (q *QRCode) String() string {
	var sb strings.Builder
	for y := 0; y < q.width; y++ {
		for x := 0; x < q.width; x++ {
			if q.At(x, y) == Dark {
				sb.WriteString("░")
			} else {
				sb.WriteString("▓")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// svgRenderer holds the rendering options for ToSVGString.
type svgRenderer struct {
	border         int
	darkColor      string
	lightColor     string
	includeDocType bool
}

// SVGOption configures the SVG output.
type SVGOption func(*svgRenderer)

// WithBorder sets the quiet zone width in modules. The default is 4.
func WithBorder(border int) SVGOption {
	return func(r *svgRenderer) {
		r.border = border
	}
}

// WithDarkColor sets the fill color of dark modules.
func WithDarkColor(color string) SVGOption {
	return func(r *svgRenderer) {
		r.darkColor = color
	}
}

// WithLightColor sets the background fill color.
func WithLightColor(color string) SVGOption {
	return func(r *svgRenderer) {
		r.lightColor = color
	}
}

// WithDocType prepends the XML declaration and SVG doctype.
func WithDocType() SVGOption {
	return func(r *svgRenderer) {
		r.includeDocType = true
	}
}

// ToSVGString returns a scalable vector graphics (SVG) representation of the
// QR code.
func (q *QRCode) ToSVGString(options ...SVGOption) (string, error) {
	r := svgRenderer{
		border:     4,
		darkColor:  "#000000",
		lightColor: "#FFFFFF",
	}
	for _, o := range options {
		o(&r)
	}

	if r.border < 0 {
		return "", fmt.Errorf("border must be non-negative")
	}

	var sb strings.Builder
	if r.includeDocType {
		sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
		sb.WriteString("<!DOCTYPE svg PUBLIC \"-//W3C//DTD SVG 1.1//EN\" \"http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd\">\n")
	}
	fmt.Fprintf(&sb, "<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" viewBox=\"0 0 %[1]d %[1]d\" stroke=\"none\">\n", q.width+r.border*2)
	fmt.Fprintf(&sb, "\t<rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", r.lightColor)
	sb.WriteString("\t<path d=\"")
	first := true
	for y := 0; y < q.width; y++ {
		for x := 0; x < q.width; x++ {
			if q.At(x, y) == Dark {
				if !first {
					sb.WriteString(" ")
				}
				first = false
				fmt.Fprintf(&sb, "M%d,%dh1v1h-1z", x+r.border, y+r.border)
			}
		}
	}
	fmt.Fprintf(&sb, "\" fill=\"%s\"/>\n", r.darkColor)
	sb.WriteString("</svg>\n")

	return sb.String(), nil
}
