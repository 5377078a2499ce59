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

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/quietzone/qrgen"
)

func main() {
	content := "http://www.baidu.com"

	code, err := qrgen.NewWithLevel([]byte(content), qrgen.L)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding %q: %v\n", content, err)
		os.Exit(1)
	}

	fmt.Printf("version %d, width %d\n", code.Version().Number(), code.Width())
	fmt.Print(code)

	svg, err := code.ToSVGString(qrgen.WithDocType())
	if err != nil {
		fmt.Fprintf(os.Stderr, "rendering: %v\n", err)
		os.Exit(1)
	}

	path := filepath.Join(os.TempDir(), "qrgen.svg")
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", path)

	if err := browser.OpenFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "opening browser: %v\n", err)
	}
}
