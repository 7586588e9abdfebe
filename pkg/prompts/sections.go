package prompts

// 生成モデルへ送る指示テキストの各セクションです。
// この文面はそのままモデルへの命令になるため、再現性を保つ目的で
// 一字一句変更しないでください。
const (
	sectionSystemInstruction = "[SYSTEM INSTRUCTION]\n" +
		"You are an expert image generation assistant specializing in style transfer and consistency. The images provided above are your SOURCE MATERIAL.\n\n"

	sectionStyleMandate = "[VISUAL STYLE & CHARACTER MANDATE]\n" +
		"1. Analyze the attached reference images deeply. You MUST replicate their artistic style, rendering technique, color palette, and character design features.\n" +
		"2. If the user prompt conflicts with the visual style of the reference images, prioritize the style of the reference images.\n"

	directiveSubjectFormat = "3. PRIMARY SUBJECT/CONCEPT: \"%s\". Ensure the generated image clearly represents this subject/concept as depicted in the reference images.\n"

	sectionGenerationTaskFormat = "\n[GENERATION TASK]\n" +
		"Apply the visual style and character features defined above to generate the following scene:\n\"%s\"\n"

	sectionSceneFormat = "[SCENE DESCRIPTION]\n%s\n"

	sectionStyleGuidanceFormat = "\n[ADDITIONAL STYLE GUIDANCE]\n%s\n"

	sectionNegativeFormat = "\n[NEGATIVE CONSTRAINTS]\nExclude: %s\n"
)
