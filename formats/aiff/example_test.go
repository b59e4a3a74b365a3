// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"fmt"
	"log"
	"os"

	"github.com/ik5/soundshader/audio"
	"github.com/ik5/soundshader/formats/aiff"
)

// ExampleDecoder_Decode shows how to decode an AIFF file.
func ExampleDecoder_Decode() {
	f, err := os.Open("input.aiff")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	src, err := aiff.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Decoded AIFF: %d Hz, %d channels, %s\n",
		src.SampleRate(), src.Channels(), src.Encoding())
}

// Example_registry registers the AIFF decoder under both common extensions.
func Example_registry() {
	reg := audio.NewRegistry()
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})

	_, ok := reg.Get("AIF")
	fmt.Println(ok)
	// Output: true
}
