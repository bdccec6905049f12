package probe

// Names the probe program is reflected by.
const (
	BlockName   = "Transform"
	TintUniform = "tint"
)

// VertexSource transforms a textured 2D quad by the Transform block.
const VertexSource = `
#version 330 core
layout(std140) uniform Transform {
	mat4 mvp;
};
layout(location = 0) in vec2 position_in;
layout(location = 1) in vec2 tex_coords_in;
out vec2 tex_coords;
void main() {
	gl_Position = mvp * vec4(position_in, 0.0, 1.0);
	tex_coords = tex_coords_in;
}`

// FragmentSource samples the probe texture and multiplies it by tint.
const FragmentSource = `
#version 330 core
uniform sampler2D frag_tex;
uniform vec4 tint;
in vec2 tex_coords;
out vec4 frag_color;
void main() {
	frag_color = texture(frag_tex, tex_coords) * tint;
}`
