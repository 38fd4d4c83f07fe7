package renderer

const meshVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec4 aTangent;
layout (location = 3) in vec3 aTexCoord;
layout (location = 4) in vec3 aColor;

uniform mat4 uModel;
uniform mat4 uViewProj;

out vec3 vWorldPos;
out vec3 vNormal;
out vec4 vTangent;
out vec2 vTexCoord;
out vec3 vColor;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    mat3 normalMat = mat3(uModel);
    vWorldPos = world.xyz;
    vNormal = normalMat * aNormal;
    vTangent = vec4(normalMat * aTangent.xyz, aTangent.w);
    vTexCoord = aTexCoord.xy;
    vColor = aColor;
    gl_Position = uViewProj * world;
}
`

const meshFragmentShader = `
#version 410 core

in vec3 vWorldPos;
in vec3 vNormal;
in vec4 vTangent;
in vec2 vTexCoord;
in vec3 vColor;

uniform vec3 uLightDir;
uniform vec3 uCameraPos;
uniform vec3 uBaseColor;

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    if (!gl_FrontFacing) {
        n = -n;
    }
    vec3 l = normalize(-uLightDir);
    vec3 v = normalize(uCameraPos - vWorldPos);
    vec3 h = normalize(l + v);

    // Checker from the UVs so texture seams and tangent flips are visible.
    float checker = mod(floor(vTexCoord.x * 8.0) + floor(vTexCoord.y * 8.0), 2.0);
    vec3 albedo = uBaseColor * mix(0.8, 1.0, checker) + vColor;

    float diffuse = max(dot(n, l), 0.0);
    float specular = pow(max(dot(n, h), 0.0), 32.0) * 0.25;
    vec3 color = albedo * (0.15 + 0.85 * diffuse) + vec3(specular);
    FragColor = vec4(color, 1.0);
}
`

// The tangent frame pass draws one normal and one tangent segment per vertex.
const frameVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec4 aTangent;

out vec3 gNormal;
out vec4 gTangent;

void main() {
    gl_Position = vec4(aPosition, 1.0);
    gNormal = aNormal;
    gTangent = aTangent;
}
`

const frameGeometryShader = `
#version 410 core

layout (points) in;
layout (line_strip, max_vertices = 6) out;

in vec3 gNormal[];
in vec4 gTangent[];

uniform mat4 uModel;
uniform mat4 uViewProj;
uniform float uLength;

out vec3 fColor;

void segment(vec3 origin, vec3 dir, vec3 color) {
    fColor = color;
    gl_Position = uViewProj * uModel * vec4(origin, 1.0);
    EmitVertex();
    gl_Position = uViewProj * uModel * vec4(origin + dir * uLength, 1.0);
    EmitVertex();
    EndPrimitive();
}

void main() {
    vec3 p = gl_in[0].gl_Position.xyz;
    vec3 n = gNormal[0];
    vec3 t = gTangent[0].xyz;
    vec3 b = cross(n, t) * gTangent[0].w;
    segment(p, n, vec3(0.2, 0.4, 1.0));
    segment(p, t, vec3(1.0, 0.2, 0.2));
    segment(p, b, vec3(0.2, 1.0, 0.3));
}
`

const frameFragmentShader = `
#version 410 core

in vec3 fColor;
out vec4 FragColor;

void main() {
    FragColor = vec4(fColor, 1.0);
}
`

const boundsVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;

uniform mat4 uModel;
uniform mat4 uViewProj;

void main() {
    gl_Position = uViewProj * uModel * vec4(aPosition, 1.0);
}
`

const boundsFragmentShader = `
#version 410 core

uniform vec3 uColor;
out vec4 FragColor;

void main() {
    FragColor = vec4(uColor, 1.0);
}
`
