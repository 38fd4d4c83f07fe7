// objtool is a CLI utility for inspecting and converting Wavefront OBJ meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chewxy/math32"

	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/formats"
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]
	args = args[1:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args, stdout)
	case "dump":
		err = cmdDump(args, stdout)
	case "weld":
		err = cmdWeld(args, stdout)
	case "convert":
		err = cmdConvert(args, stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}
	defer logger.Sync()

	if errors.Is(err, errUsage) {
		fmt.Fprintf(stderr, "Usage: objtool %s\n", commandUsage[command])
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

var commandUsage = map[string]string{
	"info":    "info [-v] <file.obj>",
	"dump":    "dump [-v] <file.obj>",
	"weld":    "weld [-v] [-mesh N] [-degenerate-uv propagate|skip] [-no-normals] <file.obj>",
	"convert": "convert [-v] [-no-texcoords] [-no-normals] <in.obj> <out.obj>",
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `objtool - Wavefront OBJ mesh utility

Usage:
  objtool <command> [options]

Commands:
  info <file.obj>              Show meshes, groups and materials
  dump <file.obj>              Print the parsed document
  weld <file.obj>              Run the import pipeline and report vertex reuse
  convert <in.obj> <out.obj>   Re-save a file, optionally dropping attributes

Options:
  -v   Log parser warnings and pipeline details

Examples:
  objtool info teapot.obj
  objtool weld -degenerate-uv skip teapot.obj
  objtool convert -no-texcoords teapot.obj teapot-plain.obj`)
}

// newFlagSet returns a flag set with the shared -v flag.
func newFlagSet(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	verbose := fs.Bool("v", false, "Verbose logging")
	return fs, verbose
}

func parseFlags(fs *flag.FlagSet, verbose *bool, args []string, nargs int) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != nargs {
		return errUsage
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	// Stdout carries command output, so diagnostics go to stderr.
	return logger.Configure(logger.Options{Level: level, Console: os.Stderr})
}

func cmdInfo(args []string, out io.Writer) error {
	fs, verbose := newFlagSet("info")
	if err := parseFlags(fs, verbose, args, 1); err != nil {
		return err
	}

	obj, err := formats.LoadOBJFile(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "File:       %s\n", fs.Arg(0))
	fmt.Fprintf(out, "Meshes:     %d\n", obj.MeshCount())
	fmt.Fprintf(out, "Groups:     %d\n", obj.GroupCount()-1)
	fmt.Fprintf(out, "Materials:  %d\n", obj.MaterialCount()-1)
	for _, lib := range obj.MaterialLibraries {
		fmt.Fprintf(out, "Library:    %s\n", lib)
	}

	for i, m := range obj.Meshes {
		var counts [3]int
		for j := range m.Faces {
			counts[m.Faces[j].Type]++
		}
		name := m.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Mesh %d: %s\n", i, name)
		fmt.Fprintf(out, "  Vertices:   %d\n", len(m.Vertices))
		fmt.Fprintf(out, "  TexCoords:  %d\n", len(m.TexCoords))
		fmt.Fprintf(out, "  Normals:    %d\n", len(m.Normals))
		fmt.Fprintf(out, "  Faces:      %d (%d triangles, %d quads, %d polygons)\n",
			len(m.Faces), counts[formats.OBJTriangle], counts[formats.OBJQuad], counts[formats.OBJPolygon])
	}
	return nil
}

func cmdDump(args []string, out io.Writer) error {
	fs, verbose := newFlagSet("dump")
	if err := parseFlags(fs, verbose, args, 1); err != nil {
		return err
	}

	obj, err := formats.LoadOBJFile(fs.Arg(0))
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, obj.String())
	return err
}

func cmdWeld(args []string, out io.Writer) error {
	fs, verbose := newFlagSet("weld")
	meshIndex := fs.Int("mesh", 0, "Mesh index")
	policy := fs.String("degenerate-uv", "propagate", "Degenerate UV policy")
	noNormals := fs.Bool("no-normals", false, "Do not generate missing normals")
	if err := parseFlags(fs, verbose, args, 1); err != nil {
		return err
	}

	uvPolicy, err := model.ParseDegenerateUVPolicy(*policy)
	if err != nil {
		return err
	}

	obj, err := formats.LoadOBJFile(fs.Arg(0))
	if err != nil {
		return err
	}
	src := obj.Mesh(*meshIndex)
	if src == nil {
		return fmt.Errorf("mesh %d out of range, file has %d", *meshIndex, obj.MeshCount())
	}

	mesh, err := model.BuildMesh(src, model.LoadOptions{
		GenerateNormals: !*noNormals,
		Tangents:        model.TangentOptions{DegenerateUV: uvPolicy},
	})
	if err != nil {
		return err
	}

	corners := mesh.IndexCount()
	invalid := 0
	for _, v := range mesh.Vertices {
		t := v.Tangent
		if math32.IsNaN(t.X) || math32.IsNaN(t.Y) || math32.IsNaN(t.Z) ||
			math32.IsInf(t.X, 0) || math32.IsInf(t.Y, 0) || math32.IsInf(t.Z, 0) {
			invalid++
		}
	}

	fmt.Fprintf(out, "Mesh:       %s\n", mesh.Name)
	fmt.Fprintf(out, "Triangles:  %d\n", len(mesh.Faces))
	fmt.Fprintf(out, "Corners:    %d\n", corners)
	fmt.Fprintf(out, "Vertices:   %d (%.1f%% of corners)\n", len(mesh.Vertices), 100*float64(len(mesh.Vertices))/float64(corners))
	fmt.Fprintf(out, "GPU bytes:  %d vertex, %d index\n", len(mesh.Vertices)*model.VertexSize, corners*4)
	fmt.Fprintf(out, "Bounds:     (%g, %g, %g) - (%g, %g, %g)\n",
		mesh.Bounds.Min.X, mesh.Bounds.Min.Y, mesh.Bounds.Min.Z,
		mesh.Bounds.Max.X, mesh.Bounds.Max.Y, mesh.Bounds.Max.Z)
	fmt.Fprintf(out, "Bad tangents: %d (policy %s)\n", invalid, uvPolicy)
	return nil
}

func cmdConvert(args []string, out io.Writer) error {
	fs, verbose := newFlagSet("convert")
	noTex := fs.Bool("no-texcoords", false, "Drop texture coordinates")
	noNormals := fs.Bool("no-normals", false, "Drop normals")
	if err := parseFlags(fs, verbose, args, 2); err != nil {
		return err
	}

	obj, err := formats.LoadOBJFile(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := formats.OBJSaveOptions{TexCoords: !*noTex, Normals: !*noNormals}
	if err := obj.Save(fs.Arg(1), opts); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s (%d meshes)\n", fs.Arg(1), obj.MeshCount())
	return nil
}
