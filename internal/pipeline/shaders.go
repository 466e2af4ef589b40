package pipeline

// standardVert is shared by all four pipeline kinds: it applies the
// per-instance model matrix (binding 1) on top of the per-frame camera UBO
// (set 0, binding 0) and forwards world-space position/normal/uv to the
// fragment stage. Unlit pipelines simply ignore the normal/world-position
// varyings they don't need.
const standardVert = `
#version 450

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec3 inTangent;

layout(location = 4) in vec4 inModelCol0;
layout(location = 5) in vec4 inModelCol1;
layout(location = 6) in vec4 inModelCol2;
layout(location = 7) in vec4 inModelCol3;
layout(location = 8) in vec4 inNormalCol0;
layout(location = 9) in vec4 inNormalCol1;
layout(location = 10) in vec4 inNormalCol2;
layout(location = 11) in uint inMaterialIndex;

layout(set = 0, binding = 0) uniform CameraUBO {
    mat4 view;
    mat4 projection;
    vec3 position;
} camera;

layout(push_constant) uniform PushConstants {
    mat4 model;
    mat3x4 normalMatrix;
    vec4 materialColor;
} push;

layout(location = 0) out vec3 outWorldPos;
layout(location = 1) out vec3 outNormal;
layout(location = 2) out vec2 outUV;
layout(location = 3) flat out uint outMaterialIndex;

void main() {
    mat4 model = mat4(inModelCol0, inModelCol1, inModelCol2, inModelCol3);
    mat3 normalMatrix = mat3(inNormalCol0.xyz, inNormalCol1.xyz, inNormalCol2.xyz);

    vec4 worldPos = model * push.model * vec4(inPosition, 1.0);
    outWorldPos = worldPos.xyz;
    outNormal = normalize(normalMatrix * inNormal);
    outUV = inUV;
    outMaterialIndex = inMaterialIndex;

    gl_Position = camera.projection * camera.view * worldPos;
}
`

// pbrFrag shades StandardPBR and TransparentPBR: a single directional key
// light plus ambient, applied to the material's base color times its base
// color texture, plus emission; the MaterialUBO's metallic and roughness
// factors are not used in shading. It is deliberately not a full multi-light
// pipeline; spec.md's lighting UBO carries one directional light and an
// ambient term.
const pbrFrag = `
#version 450

layout(location = 0) in vec3 inWorldPos;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) flat in uint inMaterialIndex;

layout(set = 0, binding = 1) uniform LightingUBO {
    vec3 direction;
    vec3 color;
    vec3 ambient;
} lighting;

layout(set = 1, binding = 0) uniform MaterialUBO {
    vec4 baseColor;
    vec4 emission;
    float metallic;
    float roughness;
    float alpha;
} material;

layout(set = 1, binding = 1) uniform sampler2D baseColorTex;
layout(set = 1, binding = 6) uniform sampler2D opacityTex;

layout(push_constant) uniform PushConstants {
    mat4 model;
    mat3x4 normalMatrix;
    vec4 materialColor;
} push;

layout(location = 0) out vec4 outColor;

void main() {
    vec3 n = normalize(inNormal);
    vec3 l = normalize(-lighting.direction);
    float ndotl = max(dot(n, l), 0.0);

    vec4 albedo = material.baseColor * push.materialColor * texture(baseColorTex, inUV);
    float alpha = material.alpha * texture(opacityTex, inUV).r;

    vec3 diffuse = albedo.rgb * lighting.color * ndotl;
    vec3 ambient = albedo.rgb * lighting.ambient;
    vec3 lit = diffuse + ambient + material.emission.rgb;

    outColor = vec4(lit, alpha);
}
`

// unlitFrag shades Unlit and TransparentUnlit: base color texture times
// material color, no lighting UBO sampled at all.
const unlitFrag = `
#version 450

layout(location = 0) in vec3 inWorldPos;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) flat in uint inMaterialIndex;

layout(set = 1, binding = 0) uniform MaterialUBO {
    vec4 baseColor;
    vec4 emission;
    float metallic;
    float roughness;
    float alpha;
} material;

layout(set = 1, binding = 1) uniform sampler2D baseColorTex;
layout(set = 1, binding = 6) uniform sampler2D opacityTex;

layout(push_constant) uniform PushConstants {
    mat4 model;
    mat3x4 normalMatrix;
    vec4 materialColor;
} push;

layout(location = 0) out vec4 outColor;

void main() {
    vec4 albedo = material.baseColor * push.materialColor * texture(baseColorTex, inUV);
    float alpha = material.alpha * texture(opacityTex, inUV).r;
    outColor = vec4(albedo.rgb, alpha);
}
`
