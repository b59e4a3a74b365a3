// SPDX-License-Identifier: EPL-2.0

package director

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/ik5/soundshader/asset"
	"github.com/ik5/soundshader/shader"
)

// Director renders batches of the compiled program. The pipeline and bind
// group layouts are built once in New; each Render allocates its own
// transient buffers.
type Director struct {
	gpu     *Context
	program shader.Program
	module  *wgpu.ShaderModule
	layouts []*wgpu.BindGroupLayout
	plLay   *wgpu.PipelineLayout
	pipe    *wgpu.ComputePipeline
	assets  []*asset.Asset
	logger  *slog.Logger

	mu     sync.Mutex
	cursor FrameCursor
}

type options struct {
	logger *slog.Logger
	names  []string
}

// Option configures a Director.
type Option func(*options)

// WithLogger sets the logger for construction messages.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithAssetNames labels the asset blocks of the generated program.
func WithAssetNames(names ...string) Option {
	return func(o *options) { o.names = names }
}

// New compiles source against the asset list. Compilation and validation
// failures are returned with the compiler diagnostic wrapped in
// ErrShaderCompile.
func New(gpu *Context, source string, assets []*asset.Asset, opts ...Option) (*Director, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	names := make([]string, len(assets))
	copy(names, o.names)

	d := &Director{
		gpu:     gpu,
		program: shader.Bind(source, shader.Descriptors(names)),
		assets:  assets,
		logger:  o.logger,
	}

	if err := d.build(); err != nil {
		d.Release()
		return nil, err
	}

	d.logger.Info("sound program ready", "assets", len(assets), "source_bytes", len(d.program.Source))

	return d, nil
}

func (d *Director) build() error {
	device := d.gpu.device

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "sound shader",
		GLSLDescriptor: &wgpu.ShaderModuleGLSLDescriptor{
			Code:        d.program.Source,
			ShaderStage: wgpu.ShaderStageCompute,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	d.module = module

	for _, g := range d.program.Layout.Groups {
		entries := make([]wgpu.BindGroupLayoutEntry, len(g.Bindings))
		for i, b := range g.Bindings {
			entries[i] = wgpu.BindGroupLayoutEntry{
				Binding:    b.Slot,
				Visibility: wgpu.ShaderStageCompute,
				Buffer:     wgpu.BufferBindingLayout{Type: bindingType(b.Kind)},
			}
		}

		layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("group %d", g.Index),
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("%w: bind group %d: %w", ErrShaderCompile, g.Index, err)
		}
		d.layouts = append(d.layouts, layout)
	}

	plLay, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "sound pipeline layout",
		BindGroupLayouts: d.layouts,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	d.plLay = plLay

	pipe, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "sound pipeline",
		Layout: plLay,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: shader.EntryPoint,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	d.pipe = pipe

	return nil
}

func bindingType(k shader.Kind) wgpu.BufferBindingType {
	if k == shader.Uniform {
		return wgpu.BufferBindingTypeUniform
	}
	return wgpu.BufferBindingTypeStorage
}

// Source is the assembled program text.
func (d *Director) Source() string { return d.program.Source }

// Cursor is the first frame of the next Render.
func (d *Director) Cursor() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.cursor.Position()
}

// Render executes one batch of bufferLength/2 frames starting at the cursor
// and returns bufferLength interleaved floats. It blocks until the GPU is
// done. Successive calls cover contiguous frame ranges.
func (d *Director) Render(sampleRate, bufferLength uint32) ([]float32, error) {
	if bufferLength%2 != 0 {
		return nil, fmt.Errorf("%d: %w", bufferLength, ErrOddLength)
	}
	if sampleRate == 0 {
		return nil, ErrZeroRate
	}
	if bufferLength == 0 {
		return []float32{}, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	frames := bufferLength / 2
	base := d.cursor.Position()

	var rel releaser
	defer rel.release()

	out, err := d.dispatch(&rel, sampleRate, base, frames)
	if err != nil {
		return nil, err
	}

	d.cursor.Advance(frames)
	return out, nil
}

func (d *Director) dispatch(rel *releaser, sampleRate, base, frames uint32) ([]float32, error) {
	device := d.gpu.device
	size := uint64(frames) * 2 * 4

	storage, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "sound output",
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("output buffer: %w", err)
	}
	rel.add(storage.Release)

	staging, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "sound staging",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("staging buffer: %w", err)
	}
	rel.add(staging.Release)

	info, err := d.uniform(rel, "device info", deviceInfo(sampleRate, base))
	if err != nil {
		return nil, err
	}

	group0, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "device group",
		Layout: d.layouts[shader.GroupDevice],
		Entries: []wgpu.BindGroupEntry{
			{Binding: shader.SlotOutput, Buffer: storage, Size: wgpu.WholeSize},
			{Binding: shader.SlotDeviceInfo, Buffer: info, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("device bind group: %w", err)
	}
	rel.add(group0.Release)

	entries, err := d.assetEntries(rel, sampleRate, base, frames)
	if err != nil {
		return nil, err
	}

	group1, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "asset group",
		Layout:  d.layouts[shader.GroupAssets],
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("asset bind group: %w", err)
	}
	rel.add(group1.Release)

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("command encoder: %w", err)
	}
	rel.add(encoder.Release)

	pass := encoder.BeginComputePass(nil)
	err = d.record(pass, encoder, group0, group1, frames, storage, staging, size)
	pass.Release()
	if err != nil {
		return nil, err
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish commands: %w", err)
	}
	rel.add(cmd.Release)

	d.gpu.queue.Submit(cmd)

	out := make([]float32, frames*2)
	if err := readBack(staging, func() { device.Poll(true, nil) }, size, out); err != nil {
		return nil, err
	}

	return out, nil
}

// computePass is the part of *wgpu.ComputePassEncoder a batch uses.
type computePass interface {
	SetPipeline(pipeline *wgpu.ComputePipeline)
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
	DispatchWorkgroups(x, y, z uint32)
	End() error
}

type bufferCopier interface {
	CopyBufferToBuffer(src *wgpu.Buffer, srcOffset uint64, dst *wgpu.Buffer, dstOffset uint64, size uint64) error
}

// record encodes the dispatch over frames and the copy of the output into
// the staging buffer.
func (d *Director) record(pass computePass, enc bufferCopier, group0, group1 *wgpu.BindGroup, frames uint32, storage, staging *wgpu.Buffer, size uint64) error {
	pass.SetPipeline(d.pipe)
	pass.SetBindGroup(shader.GroupDevice, group0, nil)
	pass.SetBindGroup(shader.GroupAssets, group1, nil)
	pass.DispatchWorkgroups(workgroups(frames, shader.WorkgroupSize), 1, 1)
	if err := pass.End(); err != nil {
		return fmt.Errorf("end compute pass: %w", err)
	}

	if err := enc.CopyBufferToBuffer(storage, 0, staging, 0, size); err != nil {
		return fmt.Errorf("copy output: %w", err)
	}

	return nil
}

// mappable is the part of *wgpu.Buffer used to read results back.
type mappable interface {
	MapAsync(mode wgpu.MapMode, offset, size uint64, callback wgpu.BufferMapCallback) error
	GetMappedRange(offset, size uint) []byte
	Unmap() error
}

// readBack maps size bytes of staging, waits through poll and decodes them
// into out.
func readBack(staging mappable, poll func(), size uint64, out []float32) error {
	var (
		mapped bool
		status wgpu.BufferMapAsyncStatus
	)
	err := staging.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		mapped = s == wgpu.BufferMapAsyncStatusSuccess
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMapFailed, err)
	}
	poll()

	if !mapped {
		return fmt.Errorf("%w: status %v", ErrMapFailed, status)
	}

	floats(staging.GetMappedRange(0, uint(size)), out)

	if err := staging.Unmap(); err != nil {
		return fmt.Errorf("unmap staging: %w", err)
	}

	return nil
}

// assetEntries pulls this batch's frames from every asset and uploads them
// with lookaheadTexels more for interpolation.
func (d *Director) assetEntries(rel *releaser, sampleRate, base, frames uint32) ([]wgpu.BindGroupEntry, error) {
	device := d.gpu.device
	entries := make([]wgpu.BindGroupEntry, 0, 2*len(d.assets))

	for i, a := range d.assets {
		spec := a.Spec()
		n := asset.FramesFor(uint64(base), frames, sampleRate, uint32(spec.SampleRate))

		texels, _ := a.NextBuffer(n)
		texels = append(texels, a.Lookahead(lookaheadTexels)...)

		buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    fmt.Sprintf("asset %d texels", i),
			Contents: texelBytes(texels),
			Usage:    wgpu.BufferUsageStorage,
		})
		if err != nil {
			return nil, fmt.Errorf("asset %d texels: %w", i, err)
		}
		rel.add(buf.Release)

		info, err := d.uniform(rel, fmt.Sprintf("asset %d info", i), assetInfo(spec))
		if err != nil {
			return nil, err
		}

		entries = append(entries,
			wgpu.BindGroupEntry{Binding: shader.AssetStorageSlot(i), Buffer: buf, Size: wgpu.WholeSize},
			wgpu.BindGroupEntry{Binding: shader.AssetInfoSlot(i), Buffer: info, Size: wgpu.WholeSize},
		)
	}

	return entries, nil
}

// lookaheadTexels covers the last frame of a batch: its fractional position
// can reach one past the batch's final asset frame when the asset rate is
// below the device rate.
const lookaheadTexels = 2

func (d *Director) uniform(rel *releaser, label string, contents []byte) (*wgpu.Buffer, error) {
	buf, err := d.gpu.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    wgpu.BufferUsageUniform,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	rel.add(buf.Release)
	return buf, nil
}

// Release frees the pipeline objects. The Context stays usable.
func (d *Director) Release() {
	if d.pipe != nil {
		d.pipe.Release()
		d.pipe = nil
	}
	if d.plLay != nil {
		d.plLay.Release()
		d.plLay = nil
	}
	for _, l := range d.layouts {
		l.Release()
	}
	d.layouts = nil
	if d.module != nil {
		d.module.Release()
		d.module = nil
	}
}

// releaser collects per-render GPU objects and frees them in reverse order.
type releaser struct {
	fns []func()
}

func (r *releaser) add(fn func()) { r.fns = append(r.fns, fn) }

func (r *releaser) release() {
	for i := len(r.fns) - 1; i >= 0; i-- {
		r.fns[i]()
	}
	r.fns = nil
}
