// SPDX-License-Identifier: EPL-2.0

package shader

import (
	"strconv"
	"strings"
)

// Descriptor identifies one bound asset. Name only appears in a comment of
// the generated source.
type Descriptor struct {
	Name string
}

// Program is the complete compute source plus the resources it declares.
type Program struct {
	Source string
	Layout Layout
}

// Bind assembles the compute program for a user body and an ordered asset
// list: the device preamble, one resource block with soundTextureK,
// soundTexelFetchK and soundDFTFetchK per asset, the user source, and the
// entry point calling mainSound. The result depends only on its arguments.
func Bind(source string, assets []Descriptor) Program {
	var b strings.Builder
	b.Grow(len(prefix) + len(assetBlock)*len(assets) + len(source) + len(suffix) + 64)

	b.WriteString(prefix)
	for i, d := range assets {
		b.WriteString("\n// asset ")
		b.WriteString(strconv.Itoa(i))
		if d.Name != "" {
			b.WriteString(": ")
			b.WriteString(strings.ReplaceAll(d.Name, "\n", " "))
		}
		writeAsset(&b, i)
	}

	b.WriteString("\n")
	b.WriteString(source)
	b.WriteString(suffix)

	return Program{
		Source: b.String(),
		Layout: newLayout(len(assets)),
	}
}

// Descriptors names assets after their file paths.
func Descriptors(paths []string) []Descriptor {
	out := make([]Descriptor, len(paths))
	for i, p := range paths {
		out[i] = Descriptor{Name: p}
	}
	return out
}
