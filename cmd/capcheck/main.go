// capcheck 检查操作覆盖与已部署合约的能力解析结果
package main

func main() {
	Execute()
}
