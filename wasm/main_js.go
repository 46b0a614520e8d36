//go:build js && wasm

package main

import (
	"errors"
	"syscall/js"

	"github.com/voxelsplace/plyslim/api"
	"github.com/voxelsplace/plyslim/ply"
	"github.com/voxelsplace/plyslim/plypack"
)

func bytesFromJS(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func bytesToJS(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

func stringsFromJS(v js.Value) []string {
	out := make([]string, v.Length())
	for i := range out {
		out[i] = v.Index(i).String()
	}
	return out
}

// plyTransform(bytes[, dropPrefixes]) returns the simplified file, or an
// error string. Input with nothing to remove is returned unchanged.
func plyTransform(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing ply bytes")
	}
	opts := ply.Options{}
	if len(args) > 1 && args[1].Truthy() {
		opts.Keep = ply.DropPrefixes(stringsFromJS(args[1])...)
	}
	out, err := api.TransformWith(bytesFromJS(args[0]), opts)
	if errors.Is(err, ply.ErrNoChange) {
		return args[0]
	}
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func plyWouldChange(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(api.WouldChange(bytesFromJS(args[0])))
}

func ply2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing ply bytes")
	}
	out, err := api.PLYToGLB(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func packPlys(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing files object")
	}
	filesObj := args[0]
	files := map[string][]byte{}
	keys := js.Global().Get("Object").Call("keys", filesObj)
	for i := 0; i < keys.Length(); i++ {
		k := keys.Index(i).String()
		files[k] = bytesFromJS(filesObj.Get(k))
	}
	out, err := api.PackPLYs(files, plypack.CompZstd)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func unpackPlypack(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing pack bytes")
	}
	files, err := api.UnpackPLYPACKToMemory(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	// return an object mapping names->Uint8Array
	result := js.Global().Get("Object").New()
	for name, b := range files {
		result.Set(name, bytesToJS(b))
	}
	return result
}

func main() {
	js.Global().Set("plyTransform", js.FuncOf(plyTransform))
	js.Global().Set("plyWouldChange", js.FuncOf(plyWouldChange))
	js.Global().Set("ply2glb", js.FuncOf(ply2glb))
	js.Global().Set("packPlys", js.FuncOf(packPlys))
	js.Global().Set("unpackPlypack", js.FuncOf(unpackPlypack))
	select {}
}
