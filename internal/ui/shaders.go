package ui

// textVert/textFrag draw textured glyph quads: screen-space position
// converted to NDC in the vertex stage using a push-constant screen size,
// mirroring vala/systems/text.go's std140 push-constant layout
// (screenWidth, screenHeight, pad, pad, then a vec4 tint).
const textVert = `
#version 450

layout(location = 0) in vec2 inPos;
layout(location = 1) in vec2 inUV;

layout(push_constant) uniform PushConstants {
    vec2 screenSize;
    vec2 _pad;
    vec4 tint;
} push;

layout(location = 0) out vec2 outUV;

void main() {
    vec2 ndc = (inPos / push.screenSize) * 2.0 - 1.0;
    gl_Position = vec4(ndc, 0.0, 1.0);
    outUV = inUV;
}
`

const textFrag = `
#version 450

layout(location = 0) in vec2 inUV;

layout(set = 0, binding = 0) uniform sampler2D atlas;

layout(push_constant) uniform PushConstants {
    vec2 screenSize;
    vec2 _pad;
    vec4 tint;
} push;

layout(location = 0) out vec4 outColor;

void main() {
    vec4 glyph = texture(atlas, inUV);
    outColor = vec4(push.tint.rgb * glyph.rgb, push.tint.a * glyph.a);
}
`

// panelVert/panelFrag draw solid-color screen-space quads; each vertex
// carries its own color rather than reading the push-constant tint, so a
// single batched draw can mix panel colors.
const panelVert = `
#version 450

layout(location = 0) in vec2 inPos;
layout(location = 1) in vec4 inColor;

layout(push_constant) uniform PushConstants {
    vec2 screenSize;
    vec2 _pad;
} push;

layout(location = 0) out vec4 outColor;

void main() {
    vec2 ndc = (inPos / push.screenSize) * 2.0 - 1.0;
    gl_Position = vec4(ndc, 0.0, 1.0);
    outColor = inColor;
}
`

const panelFrag = `
#version 450

layout(location = 0) in vec4 inColor;
layout(location = 0) out vec4 outColor;

void main() {
    outColor = inColor;
}
`
