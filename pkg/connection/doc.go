// Package connection 提供搜索集群客户端的连接配置核心。
//
// Settings 在客户端初始化时创建一次，描述每个请求发出前需要确定的所有横切决策：
// 访问哪个端点、如何认证与走代理、应用类型映射到哪个索引和类型名、
// 序列化器如何定制、并发上限以及每个响应如何被观察。
//
// # 生命周期
//
// 配置分为两个阶段：
//   - 初始化阶段：单线程，通过 New / Apply 依次应用 Option
//   - 运行阶段：Freeze 之后只读，所有访问器可被并发请求安全读取
//
// # 解析规则
//
//   - ResolveIndexName：按类型的索引覆盖优先，否则使用默认索引
//   - ResolveTypeName：按类型的类型名覆盖优先，否则调用类型名解析函数
//     (默认小写类型名，PluralizeTypeNames 后为小写复数)
//
// # 使用示例
//
//	settings, err := connection.Parse("http://localhost:9200", "people",
//	    connection.MapTypeIndices(func(m *connection.TypeMap) {
//	        connection.AddType[Order](m, "orders-idx")
//	    }),
//	    connection.UsePrettyResponses(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	index, _ := connection.IndexNameOf[Order](settings) // "orders-idx"
//	typeName := connection.TypeNameOf[Order](settings)  // "order"
package connection
