package driver

import (
	"os"

	"github.com/pkg/errors"
)

// The sample run mirrors the stock demo: a class with a member field and a
// fire(Context) method that shows one toast.
const (
	SampleClass      = "Bla"
	SampleMethod     = "fire"
	SampleSourceFile = "Bla.java"
)

// SampleSource is the demo class.
const SampleSource = `package com.example.zapush;

import android.content.Context;
import android.widget.Toast;

public class Bla {
    String mText = "hello member";

    public void fire(Context context) {
        String text = new String("hello");
        Toast.makeText(context, text, Toast.LENGTH_LONG).show();
    }
}
`

// SampleManifest returns the manifest that runs SampleSource with the session
// context bound as `context`.
func SampleManifest() *Manifest {
	return &Manifest{
		Source: SourceSpec{Path: SampleSourceFile},
		Class:  SampleClass,
		Method: SampleMethod,
		Bindings: map[string]BindingSpec{
			"context": {Ref: ContextObject, Type: "android.content.Context"},
		},
		Sandbox: SandboxSpec{Allow: []string{"java.lang.*", "android.*"}},
	}
}

// WriteSample writes SampleSource to file.
func WriteSample(file string) error {
	if err := os.WriteFile(file, []byte(SampleSource), 0o644); err != nil {
		return errors.Wrapf(err, "sample: write %s", file)
	}
	return nil
}
